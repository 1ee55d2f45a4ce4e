package table

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps game states in process
// States are stored encoded so callers never share memory with the store
type MemoryStore struct {
	mu    sync.Mutex
	games map[string][]byte
	now   func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string][]byte),
		now:   time.Now,
	}
}

// Get returns the game
func (m *MemoryStore) Get(_ context.Context, id string) (*GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	var state GameState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// Set saves the game if the version matches
func (m *MemoryStore) Set(_ context.Context, state *GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.games[state.ID]
	if state.Version == 0 {
		if ok {
			return ErrVersionConflict
		}
	} else {
		if !ok {
			return ErrGameNotFound
		}

		var stored struct {
			Version int64 `json:"version"`
		}

		if err := json.Unmarshal(current, &stored); err != nil {
			return err
		}

		if stored.Version != state.Version {
			return ErrVersionConflict
		}
	}

	next := state.Clone()
	next.Version++
	next.Updated = m.now()

	b, err := json.Marshal(next)
	if err != nil {
		return err
	}

	m.games[state.ID] = b
	state.Version = next.Version
	state.Updated = next.Updated
	return nil
}

// Delete removes the game
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}

	delete(m.games, id)
	return nil
}

// GamesByStatus returns the IDs of games with the status, oldest first
func (m *MemoryStore) GamesByStatus(_ context.Context, status Status) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make([]*GameState, 0)
	for _, b := range m.games {
		var state GameState
		if err := json.Unmarshal(b, &state); err != nil {
			return nil, err
		}

		if state.Status == status {
			states = append(states, &state)
		}
	}

	return idsByCreated(states), nil
}
