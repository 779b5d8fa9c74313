// Package tapgame exposes the tapper demo game through ports.Game.
package tapgame

import (
	"context"

	"gameharness/internal/app/ports"
	"gameharness/internal/app/shared/params"
	"gameharness/internal/domain/scene"
	"gameharness/internal/domain/tapper"

	"go.uber.org/zap"
)

const (
	GameID    = "LandscapeTapper"
	sceneName = "GameScene"
)

// ProgressStore persists game progress between runs.
type ProgressStore interface {
	Load(ctx context.Context, gameID string, out any) (bool, error)
	Save(ctx context.Context, gameID string, v any) error
}

type Game struct {
	model  *tapper.Model
	layout tapper.Layout
	store  ProgressStore
	logger *zap.Logger
}

var _ ports.Game = (*Game)(nil)

// New builds a fresh game. store may be nil to disable persistence.
func New(size scene.Size, store ProgressStore, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		model:  tapper.NewModel(),
		layout: tapper.NewLayout(size),
		store:  store,
		logger: logger.With(zap.String("game", GameID)),
	}
}

// Load restores saved progress, if any.
func (g *Game) Load(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	var p tapper.Progress
	found, err := g.store.Load(ctx, GameID, &p)
	if err != nil {
		return err
	}
	if found {
		g.model = tapper.Restore(p)
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
		"score":        g.model.Score(),
		"pointsPerTap": g.model.PointsPerTap(),
		"scene":        sceneName,
		"sceneSize": map[string]any{
			"width":  g.layout.Size.Width,
			"height": g.layout.Size.Height,
		},
	}
}

// PerformTap follows the touch path: the buttons adjust points per tap and
// anywhere else scores.
func (g *Game) PerformTap(ctx context.Context, p ports.Point) bool {
	switch g.layout.Hit(scene.Point{X: p.X, Y: p.Y}) {
	case tapper.TargetMinusButton:
		g.model.DecreasePointsPerTap()
	case tapper.TargetPlusButton:
		g.model.IncreasePointsPerTap()
	default:
		g.model.Tap()
	}
	g.persist(ctx)
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

// persist saves after every mutation. A failed save is logged; the live
// state stays authoritative.
func (g *Game) persist(ctx context.Context) {
	if err := g.Flush(ctx); err != nil {
		g.logger.Warn("save progress failed", zap.Error(err))
	}
}
