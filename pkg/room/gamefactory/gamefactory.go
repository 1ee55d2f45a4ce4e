package gamefactory

import (
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/playable/ohhell"
	"cardroom-server/pkg/playable/swoop"
	"cardroom-server/pkg/playable/war"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrUnknownGameType is returned when no engine is registered for a game type
var ErrUnknownGameType = errors.New("game type is not supported")

// Registry maps a game type to its engine
type Registry struct {
	mu      sync.RWMutex
	engines map[string]playable.Engine
}

// NewRegistry returns a registry with the engines registered
func NewRegistry(engines ...playable.Engine) (*Registry, error) {
	r := &Registry{engines: make(map[string]playable.Engine)}
	for _, engine := range engines {
		if err := r.Register(engine); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Default returns a registry with every game the server knows
func Default(logger logrus.FieldLogger) *Registry {
	r, err := NewRegistry(war.New(logger), ohhell.New(logger), swoop.New(logger))
	if err != nil {
		// keys are constants, a duplicate is a programming error
		panic(err)
	}

	return r
}

// Register adds an engine
func (r *Registry) Register(engine playable.Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := engine.Key()
	if key == "" {
		return errors.New("engine key cannot be empty")
	}

	if _, ok := r.engines[key]; ok {
		return fmt.Errorf("engine already registered: %s", key)
	}

	r.engines[key] = engine
	return nil
}

// Get returns the engine for the game type
func (r *Registry) Get(gameType string) (playable.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGameType, gameType)
	}

	return engine, nil
}

// Types returns the registered engines ordered by key
func (r *Registry) Types() []playable.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engines := make([]playable.Engine, 0, len(r.engines))
	for _, engine := range r.engines {
		engines = append(engines, engine)
	}

	sort.Slice(engines, func(i, j int) bool {
		return engines[i].Key() < engines[j].Key()
	})

	return engines
}
