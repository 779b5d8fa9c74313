package memory

import (
	"sync"

	"gameharness/internal/app/ports"
)

type Store struct {
	mu    sync.Mutex
	saves map[string]ports.GameSave
}

func NewStore() *Store {
	return &Store{
		saves: make(map[string]ports.GameSave),
	}
}

func (s *Store) SeedSave(save ports.GameSave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[save.GameID] = save
}
