package store

import (
	"encoding/json"
	"sync"

	"github.com/worldopoly/backend/platform/engine"
)

// MemoryStore is an in-process Store with the same version semantics as
// RedisStore. Used by tests and available for single-node dev setups.
type MemoryStore struct {
	mu    sync.Mutex
	games map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]byte)}
}

func (s *MemoryStore) Load(roomID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.games[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	var g engine.GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *MemoryStore) Save(g *engine.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.games[g.ID]; ok {
		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(data, &stored); err == nil && stored.Version != g.Version {
			return ErrConflict
		}
	}

	g.Version++
	payload, err := json.Marshal(g)
	if err != nil {
		g.Version--
		return err
	}
	s.games[g.ID] = payload
	return nil
}

func (s *MemoryStore) Delete(roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.games, roomID)
	return nil
}
