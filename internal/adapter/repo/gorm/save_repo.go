package gormrepo

import (
	"context"
	"errors"

	"gameharness/internal/adapter/repo/gorm/model"
	"gameharness/internal/app/ports"

	"gorm.io/gorm"
)

type SaveRepo struct {
	db *gorm.DB
}

func NewSaveRepo(db *gorm.DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) Get(ctx context.Context, gameID string) (ports.GameSave, error) {
	var m model.GameSave
	if err := getDBFromCtx(ctx, r.db).Where("game_id = ?", gameID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.GameSave{}, ports.ErrNotFound
		}
		return ports.GameSave{}, err
	}
	return ports.GameSave{
		GameID:    m.GameID,
		Payload:   m.Payload,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r SaveRepo) SaveWithVersion(ctx context.Context, save ports.GameSave, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := model.GameSave{
			GameID:    save.GameID,
			Payload:   save.Payload,
			Version:   save.Version,
			UpdatedAt: save.UpdatedAt,
		}
		return db.Create(&m).Error
	}

	res := db.Model(&model.GameSave{}).
		Where("game_id = ? AND version = ?", save.GameID, expectedVersion).
		Updates(map[string]any{
			"payload":    save.Payload,
			"version":    save.Version,
			"updated_at": save.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
