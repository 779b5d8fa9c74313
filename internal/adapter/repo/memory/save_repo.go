package memory

import (
	"context"

	"gameharness/internal/app/ports"
)

// SaveRepo must be used inside TxManager.RunInTx; it relies on the
// transaction holding the store lock.
type SaveRepo struct {
	store *Store
}

func NewSaveRepo(store *Store) SaveRepo {
	return SaveRepo{store: store}
}

func (r SaveRepo) Get(_ context.Context, gameID string) (ports.GameSave, error) {
	save, ok := r.store.saves[gameID]
	if !ok {
		return ports.GameSave{}, ports.ErrNotFound
	}
	save.Payload = append([]byte(nil), save.Payload...)
	return save, nil
}

func (r SaveRepo) SaveWithVersion(_ context.Context, save ports.GameSave, expectedVersion int64) error {
	current, ok := r.store.saves[save.GameID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
	} else if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	save.Payload = append([]byte(nil), save.Payload...)
	r.store.saves[save.GameID] = save
	return nil
}
