// Package progress loads and stores game progress as versioned JSON saves.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gameharness/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid progress request")

type UseCase struct {
	TxManager ports.TxManager
	Saves     ports.SaveRepository
	Now       func() time.Time
}

// Load decodes the save for gameID into out. It reports false when the game
// has never been saved.
func (u UseCase) Load(ctx context.Context, gameID string, out any) (bool, error) {
	if strings.TrimSpace(gameID) == "" || out == nil {
		return false, ErrInvalidRequest
	}
	var save ports.GameSave
	err := u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		save, err = u.Saves.Get(ctx, gameID)
		return err
	})
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", gameID, err)
	}
	if err := json.Unmarshal(save.Payload, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", gameID, err)
	}
	return true, nil
}

// Save writes v as the next version of gameID's save.
func (u UseCase) Save(ctx context.Context, gameID string, v any) error {
	if strings.TrimSpace(gameID) == "" {
		return ErrInvalidRequest
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", gameID, err)
	}
	return u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.Saves.Get(ctx, gameID)
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("load %s: %w", gameID, err)
		}
		next := ports.GameSave{
			GameID:    gameID,
			Payload:   payload,
			Version:   current.Version + 1,
			UpdatedAt: u.now(),
		}
		return u.Saves.SaveWithVersion(ctx, next, current.Version)
	})
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}
