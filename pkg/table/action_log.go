package table

import (
	"cardroom-server/pkg/playable"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultActionQueue is the redis list accepted moves are pushed to
const DefaultActionQueue = "cardroom_actions"

// ActionRecord is one accepted move
type ActionRecord struct {
	GameID      string         `json:"game_id"`
	GameType    string         `json:"game_type"`
	ActionIndex int            `json:"action_index"`
	ActorUserID string         `json:"actor_user_id"`
	ActionType  string         `json:"action_type"`
	Move        *playable.Move `json:"action_payload"`
	Version     int64          `json:"version"`
	Timestamp   int64          `json:"timestamp"`
}

// NewActionRecord returns the record of a move accepted against the state
func NewActionRecord(state *GameState, actorID string, move *playable.Move, now time.Time) *ActionRecord {
	return &ActionRecord{
		GameID:      state.ID,
		GameType:    state.GameType,
		ActionIndex: state.MoveCount,
		ActorUserID: actorID,
		ActionType:  move.Type,
		Move:        move,
		Version:     state.Version,
		Timestamp:   now.UnixMilli(),
	}
}

// ActionLog records accepted moves
type ActionLog interface {
	Publish(ctx context.Context, record *ActionRecord) error
}

// RedisActionLog pushes every accepted move onto a redis list for replay and history
type RedisActionLog struct {
	client *redis.Client
	queue  string
}

// NewRedisActionLog returns an action log that pushes to queue
func NewRedisActionLog(client *redis.Client, queue string) *RedisActionLog {
	if queue == "" {
		queue = DefaultActionQueue
	}

	return &RedisActionLog{
		client: client,
		queue:  queue,
	}
}

// Publish serializes the record and pushes it onto the queue
func (r *RedisActionLog) Publish(ctx context.Context, record *ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal action record: %w", err)
	}

	if err := r.client.RPush(ctx, r.queue, data).Err(); err != nil {
		return fmt.Errorf("could not push to %s: %w", r.queue, err)
	}

	return nil
}

// NopActionLog discards records
type NopActionLog struct{}

// Publish does nothing
func (NopActionLog) Publish(context.Context, *ActionRecord) error {
	return nil
}
