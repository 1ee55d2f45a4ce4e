package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions are the connection details for redis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to redis and pings it
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}

	return client, nil
}

// RedisStore keeps game states in redis
// Writes use WATCH/MULTI so a stale version never overwrites a newer one
type RedisStore struct {
	client *redis.Client
	prefix string
	// FinishedTTL expires archived games. Zero keeps them forever
	FinishedTTL time.Duration
}

// NewRedisStore returns a store that keeps games under prefix
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + "game:" + id
}

// Get returns the game
func (r *RedisStore) Get(ctx context.Context, id string) (*GameState, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}

		return nil, fmt.Errorf("could not get game %s: %w", id, err)
	}

	var state GameState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// Set saves the game if the version matches
func (r *RedisStore) Set(ctx context.Context, state *GameState) error {
	key := r.key(state.ID)
	next := state.Clone()
	next.Version++
	next.Updated = time.Now()

	b, err := json.Marshal(next)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if next.Status.IsOver() {
		ttl = r.FinishedTTL
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if state.Version != 0 {
				return ErrGameNotFound
			}
		case err != nil:
			return err
		default:
			var stored struct {
				Version int64 `json:"version"`
			}

			if err := json.Unmarshal(current, &stored); err != nil {
				return err
			}

			if state.Version == 0 || stored.Version != state.Version {
				return ErrVersionConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, ttl)
			return nil
		})

		return err
	}, key)

	switch {
	case err == nil:
	case errors.Is(err, redis.TxFailedErr):
		return ErrVersionConflict
	case errors.Is(err, ErrVersionConflict), errors.Is(err, ErrGameNotFound):
		return err
	default:
		return fmt.Errorf("could not save game %s: %w", state.ID, err)
	}

	state.Version = next.Version
	state.Updated = next.Updated
	return nil
}

// Delete removes the game
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("could not delete game %s: %w", id, err)
	}

	if n == 0 {
		return ErrGameNotFound
	}

	return nil
}

// GamesByStatus scans every game under the prefix
func (r *RedisStore) GamesByStatus(ctx context.Context, status Status) ([]string, error) {
	states := make([]*GameState, 0)

	iter := r.client.Scan(ctx, 0, r.prefix+"game:*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// expired since the scan
				continue
			}

			return nil, err
		}

		var state GameState
		if err := json.Unmarshal(b, &state); err != nil {
			return nil, err
		}

		if state.Status == status {
			states = append(states, &state)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("could not scan games: %w", err)
	}

	return idsByCreated(states), nil
}
