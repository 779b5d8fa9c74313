package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when a game has never been saved.
	ErrNotFound = errors.New("save not found")
	// ErrConflict is returned by SaveWithVersion when the stored version moved.
	ErrConflict = errors.New("save version conflict")
)

// GameSave is the persisted progress of one game, stored as an opaque JSON payload.
type GameSave struct {
	GameID    string
	Payload   []byte
	Version   int64
	UpdatedAt time.Time
}

type SaveRepository interface {
	Get(ctx context.Context, gameID string) (GameSave, error)
	// SaveWithVersion writes save if the stored version equals
	// expectedVersion; zero means no save exists yet.
	SaveWithVersion(ctx context.Context, save GameSave, expectedVersion int64) error
}

// TxManager runs fn in one transaction. Nested calls join the outer one.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
