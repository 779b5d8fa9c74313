package mixgame

import (
	"context"

	"gameharness/internal/app/ports"
	"gameharness/internal/app/shared/params"
	"gameharness/internal/domain/mixing"
)

const (
	ActionTap            = "tap"
	ActionSelectCreature = "select_creature"
	ActionMix            = "mix"
	ActionClearSelection = "clear_selection"
	ActionOpenMixodex    = "open_mixodex"
	ActionCloseMixodex   = "close_mixodex"
	ActionReset          = "reset"
)

const (
	errInvalidCreature = "invalid creature_id"
	errCannotMix       = "cannot mix - need head + body selected and enough essence"
)

type actionHandler func(ctx context.Context, g *Game, p map[string]any) map[string]any

type actionSpec struct {
	Descriptor ports.ActionDescriptor
	Handler    actionHandler
}

func noParams(name, description string, h actionHandler) actionSpec {
	return actionSpec{
		Descriptor: ports.ActionDescriptor{Name: name, Description: description, Parameters: []ports.ParameterDescriptor{}},
		Handler:    h,
	}
}

func actionRegistry() map[string]actionSpec {
	return map[string]actionSpec{
		ActionTap: {
			Descriptor: ports.ActionDescriptor{
				Name:        ActionTap,
				Description: "Tap at a point in the scene",
				Parameters: []ports.ParameterDescriptor{
					{Name: "x", Type: "number", Optional: true, Description: "X coordinate"},
					{Name: "y", Type: "number", Optional: true, Description: "Y coordinate"},
				},
			},
			Handler: tapAction,
		},
		ActionSelectCreature: {
			Descriptor: ports.ActionDescriptor{
				Name:        ActionSelectCreature,
				Description: "Select a creature for mixing (first call = head, second = body)",
				Parameters: []ports.ParameterDescriptor{
					{Name: "creature_id", Type: "string", Description: "Creature ID like 'fire_fire' or 'water_earth'"},
				},
			},
			Handler: selectCreatureAction,
		},
		ActionMix:            noParams(ActionMix, "Perform the mix with currently selected head and body creatures", mixAction),
		ActionClearSelection: noParams(ActionClearSelection, "Clear both head and body selections", clearSelectionAction),
		ActionOpenMixodex:    noParams(ActionOpenMixodex, "Open the Mixodex collection overlay", setMixodexAction(true)),
		ActionCloseMixodex:   noParams(ActionCloseMixodex, "Close the Mixodex overlay", setMixodexAction(false)),
		ActionReset:          noParams(ActionReset, "Reset all game progress", resetAction),
	}
}

func supportedActions() []string {
	return []string{
		ActionTap,
		ActionSelectCreature,
		ActionMix,
		ActionClearSelection,
		ActionOpenMixodex,
		ActionCloseMixodex,
		ActionReset,
	}
}

func tapAction(ctx context.Context, g *Game, p map[string]any) map[string]any {
	center := g.layout.Size.Center()
	x, ok := params.Number(p, "x")
	if !ok {
		x = center.X
	}
	y, ok := params.Number(p, "y")
	if !ok {
		y = center.Y
	}
	g.PerformTap(ctx, ports.Point{X: x, Y: y})
	return map[string]any{"success": true}
}

// selectCreatureAction picks from the whole catalog, owned or not.
func selectCreatureAction(_ context.Context, g *Game, p map[string]any) map[string]any {
	id, _ := params.String(p, "creature_id")
	c, ok := mixing.Lookup(id)
	if !ok {
		return map[string]any{"error": errInvalidCreature}
	}
	g.model.Select(c)
	return map[string]any{
		"success":       true,
		"headSelection": selectionID(g.model.Head()),
		"bodySelection": selectionID(g.model.Body()),
	}
}

func mixAction(ctx context.Context, g *Game, _ map[string]any) map[string]any {
	if !g.model.CanMix() {
		return map[string]any{"error": errCannotMix}
	}
	res, err := g.mix(ctx)
	if err != nil {
		return map[string]any{"error": errCannotMix}
	}
	return map[string]any{
		"success":  true,
		"result":   string(res.Outcome),
		"creature": res.Creature.ID,
		"name":     res.Creature.Name,
	}
}

func clearSelectionAction(_ context.Context, g *Game, _ map[string]any) map[string]any {
	g.model.ClearSelection()
	return map[string]any{"success": true}
}

func setMixodexAction(open bool) actionHandler {
	return func(_ context.Context, g *Game, _ map[string]any) map[string]any {
		g.mixodexOpen = open
		return map[string]any{"success": true}
	}
}

func resetAction(ctx context.Context, g *Game, _ map[string]any) map[string]any {
	g.model.Reset()
	g.mixodexOpen = false
	g.persist(ctx)
	return map[string]any{"success": true}
}
