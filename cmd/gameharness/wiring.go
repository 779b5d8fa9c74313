package main

import (
	"context"
	"fmt"
	"time"

	gormrepo "gameharness/internal/adapter/repo/gorm"
	memrepo "gameharness/internal/adapter/repo/memory"
	"gameharness/internal/app/mixgame"
	"gameharness/internal/app/ports"
	"gameharness/internal/app/progress"
	"gameharness/internal/app/tapgame"
	"gameharness/internal/config"
	"gameharness/internal/domain/scene"

	"go.uber.org/zap"
)

// hostGame is a demo game plus the persistence hooks the host drives.
type hostGame interface {
	ports.Game
	Load(ctx context.Context) error
	Flush(ctx context.Context) error
}

func buildGame(cfg config.GameConfig, store progress.UseCase, logger *zap.Logger) (hostGame, error) {
	size := scene.Size{Width: cfg.SceneWidth, Height: cfg.SceneHeight}
	switch cfg.Kind {
	case config.GameTapper:
		return tapgame.New(size, store, logger), nil
	case config.GameMixer:
		return mixgame.New(size, store, logger), nil
	default:
		return nil, fmt.Errorf("unsupported game kind: %q", cfg.Kind)
	}
}

func buildProgressStore(ctx context.Context, cfg config.StorageConfig) (progress.UseCase, func(), error) {
	switch cfg.Type {
	case config.StorageMemory:
		store := memrepo.NewStore()
		return progress.UseCase{
			TxManager: memrepo.NewTxManager(store),
			Saves:     memrepo.NewSaveRepo(store),
			Now:       time.Now,
		}, func() {}, nil
	case config.StoragePostgres:
		db, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return progress.UseCase{}, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return progress.UseCase{}, nil, fmt.Errorf("postgres handle: %w", err)
		}
		closeDB := func() { _ = sqlDB.Close() }
		if err := gormrepo.ApplyMigrations(ctx, db); err != nil {
			closeDB()
			return progress.UseCase{}, nil, err
		}
		return progress.UseCase{
			TxManager: gormrepo.NewTxManager(db),
			Saves:     gormrepo.NewSaveRepo(db),
			Now:       time.Now,
		}, closeDB, nil
	default:
		return progress.UseCase{}, nil, fmt.Errorf("unsupported storage type: %q", cfg.Type)
	}
}
