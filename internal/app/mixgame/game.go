// Package mixgame exposes the creature-mixing demo game through ports.Game.
package mixgame

import (
	"context"

	"gameharness/internal/app/ports"
	"gameharness/internal/app/shared/params"
	"gameharness/internal/domain/mixing"
	"gameharness/internal/domain/scene"

	"go.uber.org/zap"
)

const (
	GameID    = "Mixodia"
	sceneName = "GameScene"
)

type ProgressStore interface {
	Load(ctx context.Context, gameID string, out any) (bool, error)
	Save(ctx context.Context, gameID string, v any) error
}

type Game struct {
	model       *mixing.Model
	layout      mixing.Layout
	mixodexOpen bool
	store       ProgressStore
	logger      *zap.Logger
}

var _ ports.Game = (*Game)(nil)

// New builds a fresh game. store may be nil to disable persistence.
func New(size scene.Size, store ProgressStore, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		model:  mixing.NewModel(),
		layout: mixing.NewLayout(size),
		store:  store,
		logger: logger.With(zap.String("game", GameID)),
	}
}

func (g *Game) Load(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	var p mixing.Progress
	found, err := g.store.Load(ctx, GameID, &p)
	if err != nil {
		return err
	}
	if found {
		g.model = mixing.Restore(p)
	}
	return nil
}

func (g *Game) Flush(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	return g.store.Save(ctx, GameID, g.model.Progress())
}

func (g *Game) Name() string {
	return GameID
}

func (g *Game) QueryState(context.Context) map[string]any {
	return map[string]any{
		"essence":          g.model.Essence(),
		"discoveredCount":  g.model.DiscoveredCount(),
		"totalCreatures":   mixing.TotalCreatures,
		"mixodexProgress":  g.model.CollectionProgress(),
		"ownedCount":       len(g.model.OwnedCreatureIDs()),
		"headSelection":    selectionID(g.model.Head()),
		"bodySelection":    selectionID(g.model.Body()),
		"canMix":           g.model.CanMix(),
		"isMixodexOpen":    g.mixodexOpen,
		"discoveredIDs":    g.model.DiscoveredIDs(),
		"ownedCreatureIDs": g.model.OwnedCreatureIDs(),
		"scene":            sceneName,
		"sceneSize": map[string]any{
			"width":  g.layout.Size.Width,
			"height": g.layout.Size.Height,
		},
	}
}

// selectionID encodes an empty slot as JSON null.
func selectionID(c mixing.Creature, ok bool) any {
	if !ok {
		return nil
	}
	return c.ID
}

// PerformTap runs the touch path. With the Mixodex open any tap closes it;
// otherwise the Mixodex button, the mix button, the filled slots and then the
// shelf are tried in that order.
func (g *Game) PerformTap(ctx context.Context, p ports.Point) bool {
	pt := scene.Point{X: p.X, Y: p.Y}
	_, hasHead := g.model.Head()
	_, hasBody := g.model.Body()

	switch {
	case g.mixodexOpen:
		g.mixodexOpen = false
	case g.layout.MixodexButton.Contains(pt):
		g.mixodexOpen = true
	case g.layout.MixButton.Contains(pt) && g.model.CanMix():
		g.mix(ctx)
	case hasHead && g.layout.HeadSlot.Contains(pt),
		hasBody && g.layout.BodySlot.Contains(pt):
		g.model.ClearSelection()
	default:
		owned := g.model.OwnedCreatures()
		if i, ok := g.layout.ShelfIndex(pt, len(owned)); ok {
			g.model.Select(owned[i])
		}
	}
	return true
}

func (g *Game) PerformAction(ctx context.Context, name string, args map[string]any) map[string]any {
	spec, ok := actionRegistry()[name]
	if !ok {
		return params.UnknownAction(name)
	}
	return spec.Handler(ctx, g, args)
}

func (g *Game) AvailableActions() []ports.ActionDescriptor {
	registry := actionRegistry()
	out := make([]ports.ActionDescriptor, 0, len(registry))
	for _, name := range supportedActions() {
		out = append(out, registry[name].Descriptor)
	}
	return out
}

func (g *Game) mix(ctx context.Context) (mixing.MixResult, error) {
	res, err := g.model.Mix()
	if err != nil {
		return mixing.MixResult{}, err
	}
	g.persist(ctx)
	g.logger.Debug("mixed creature",
		zap.String("creature", res.Creature.ID),
		zap.String("outcome", string(res.Outcome)),
	)
	return res, nil
}

func (g *Game) persist(ctx context.Context) {
	if err := g.Flush(ctx); err != nil {
		g.logger.Warn("save progress failed", zap.Error(err))
	}
}
