package tapgame

import (
	"context"

	"gameharness/internal/app/ports"
	"gameharness/internal/app/shared/params"
)

const (
	ActionTap         = "tap"
	ActionIncreasePPT = "increase_ppt"
	ActionDecreasePPT = "decrease_ppt"
	ActionReset       = "reset"
)

type actionHandler func(ctx context.Context, g *Game, p map[string]any) map[string]any

type actionSpec struct {
	Descriptor ports.ActionDescriptor
	Handler    actionHandler
}

func actionRegistry() map[string]actionSpec {
	return map[string]actionSpec{
		ActionTap: {
			Descriptor: ports.ActionDescriptor{
				Name:        ActionTap,
				Description: "Tap at a point to increment score by pointsPerTap",
				Parameters: []ports.ParameterDescriptor{
					{Name: "x", Type: "number", Optional: true, Description: "X coordinate (defaults to center)"},
					{Name: "y", Type: "number", Optional: true, Description: "Y coordinate (defaults to center)"},
				},
			},
			Handler: tapAction,
		},
		ActionIncreasePPT: {
			Descriptor: ports.ActionDescriptor{
				Name:        ActionIncreasePPT,
				Description: "Increase points per tap by 1",
				Parameters:  []ports.ParameterDescriptor{},
			},
			Handler: increasePPTAction,
		},
		ActionDecreasePPT: {
			Descriptor: ports.ActionDescriptor{
				Name:        ActionDecreasePPT,
				Description: "Decrease points per tap by 1 (minimum 1)",
				Parameters:  []ports.ParameterDescriptor{},
			},
			Handler: decreasePPTAction,
		},
		ActionReset: {
			Descriptor: ports.ActionDescriptor{
				Name:        ActionReset,
				Description: "Reset score and points per tap to defaults",
				Parameters:  []ports.ParameterDescriptor{},
			},
			Handler: resetAction,
		},
	}
}

// supportedActions fixes the catalog order.
func supportedActions() []string {
	return []string{ActionTap, ActionIncreasePPT, ActionDecreasePPT, ActionReset}
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

func increasePPTAction(ctx context.Context, g *Game, _ map[string]any) map[string]any {
	v := g.model.IncreasePointsPerTap()
	g.persist(ctx)
	return map[string]any{"success": true, "pointsPerTap": v}
}

func decreasePPTAction(ctx context.Context, g *Game, _ map[string]any) map[string]any {
	v := g.model.DecreasePointsPerTap()
	g.persist(ctx)
	return map[string]any{"success": true, "pointsPerTap": v}
}

func resetAction(ctx context.Context, g *Game, _ map[string]any) map[string]any {
	g.model.Reset()
	g.persist(ctx)
	return map[string]any{"success": true}
}
