package table

import (
	"context"
	"errors"
	"sort"
)

// ErrGameNotFound is returned when there is no game with the ID
var ErrGameNotFound = errors.New("game not found")

// ErrVersionConflict is returned when the game was changed since it was read
var ErrVersionConflict = errors.New("game was modified by another request")

// Store persists game states by ID
//
// Set writes the state only if the stored version still equals state.Version.
// A Version of 0 creates the game. On success state.Version and state.Updated are
// set to what was written.
type Store interface {
	Get(ctx context.Context, id string) (*GameState, error)
	Set(ctx context.Context, state *GameState) error
	Delete(ctx context.Context, id string) error
}

// Lister is implemented by stores that can list games
type Lister interface {
	// GamesByStatus returns the IDs of games with the status, oldest first
	GamesByStatus(ctx context.Context, status Status) ([]string, error)
}

func idsByCreated(states []*GameState) []string {
	sort.Slice(states, func(i, j int) bool {
		if states[i].Created.Equal(states[j].Created) {
			return states[i].ID < states[j].ID
		}

		return states[i].Created.Before(states[j].Created)
	})

	ids := make([]string, len(states))
	for i, state := range states {
		ids[i] = state.ID
	}

	return ids
}
