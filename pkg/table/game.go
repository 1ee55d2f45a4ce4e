package table

import (
	"cardroom-server/pkg/db"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

// PostgresStore keeps game states in the `games` table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a store backed by the database handle
func NewPostgresStore(dbh *sql.DB) *PostgresStore {
	return &PostgresStore{db: dbh}
}

// Get returns the game by its ID
func (p *PostgresStore) Get(ctx context.Context, id string) (*GameState, error) {
	const query = `
SELECT state
FROM games
WHERE id = $1`

	state, err := stateByRow(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}

		return nil, fmt.Errorf("could not get game %s: %w", id, err)
	}

	return state, nil
}

func stateByRow(row db.Scanner) (*GameState, error) {
	var b []byte
	if err := row.Scan(&b); err != nil {
		return nil, err
	}

	var state GameState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// Set inserts a new game or updates an existing one when the version matches
func (p *PostgresStore) Set(ctx context.Context, state *GameState) error {
	next := state.Clone()
	next.Version++
	next.Updated = time.Now().UTC()

	b, err := json.Marshal(next)
	if err != nil {
		return err
	}

	if state.Version == 0 {
		if err := p.insert(ctx, next, b); err != nil {
			return err
		}
	} else if err := p.update(ctx, next, state.Version, b); err != nil {
		return err
	}

	state.Version = next.Version
	state.Updated = next.Updated
	return nil
}

func (p *PostgresStore) insert(ctx context.Context, next *GameState, b []byte) error {
	const query = `
INSERT INTO games (id, game_type, status, version, state, created, updated, ended)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	created := next.Created
	if created.IsZero() {
		created = next.Updated
	}

	_, err := p.db.ExecContext(ctx, query, next.ID, next.GameType, next.Status, next.Version, b, created, next.Updated, next.Ended)
	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return ErrVersionConflict
		}

		return fmt.Errorf("could not create game %s: %w", next.ID, err)
	}

	return nil
}

func (p *PostgresStore) update(ctx context.Context, next *GameState, version int64, b []byte) error {
	const query = `
UPDATE games
SET status = $1, version = $2, state = $3, updated = $4, ended = $5
WHERE id = $6 AND version = $7`

	res, err := p.db.ExecContext(ctx, query, next.Status, next.Version, b, next.Updated, next.Ended, next.ID, version)
	if err != nil {
		return fmt.Errorf("could not save game %s: %w", next.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 1 {
		return nil
	}

	var exists bool
	if err := p.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`, next.ID).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return ErrGameNotFound
	}

	return ErrVersionConflict
}

// Delete removes the game
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete game %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrGameNotFound
	}

	return nil
}

// GamesByStatus returns the IDs of games with the status, oldest first
func (p *PostgresStore) GamesByStatus(ctx context.Context, status Status) ([]string, error) {
	const query = `
SELECT id
FROM games
WHERE status = $1
ORDER BY created`

	rows, err := p.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
