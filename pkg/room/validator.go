package room

import (
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/table"
	"encoding/json"
	"fmt"
	"time"
)

// ErrGameNotInProgress is returned when a move is made against a game that is not being played
var ErrGameNotInProgress = playable.NewMoveError("game is not in progress")

// ErrTurnExpired is returned when the turn holder ran out of time
var ErrTurnExpired = playable.NewMoveError("turn time limit exceeded")

// BaseMoveValidator performs the checks shared by every game type
type BaseMoveValidator struct {
	now func() time.Time
}

// NewBaseMoveValidator returns a validator that uses the wall clock
func NewBaseMoveValidator() *BaseMoveValidator {
	return &BaseMoveValidator{now: time.Now}
}

// Validate checks the status, seat, turn and timer of the game for the actor
func (b *BaseMoveValidator) Validate(state *table.GameState, actorID string) error {
	if state.Status != table.StatusInProgress {
		return ErrGameNotInProgress
	}

	if !state.HasPlayer(actorID) {
		return playable.ErrNotPlayer
	}

	if state.CurrentTurn != "" && state.CurrentTurn != actorID {
		return playable.ErrNotPlayersTurn
	}

	if state.Timer != nil && state.Timer.TurnLimitSeconds > 0 && !state.TurnStartedAt.IsZero() {
		if b.now().Sub(state.TurnStartedAt) > state.Timer.TurnLimit() {
			return ErrTurnExpired
		}
	}

	return nil
}

// MoveValidator validates and applies moves for a single game type
type MoveValidator struct {
	*BaseMoveValidator
	engine playable.Engine
}

// NewMoveValidator returns a validator for the engine
func NewMoveValidator(engine playable.Engine) *MoveValidator {
	return &MoveValidator{
		BaseMoveValidator: NewBaseMoveValidator(),
		engine:            engine,
	}
}

// Engine returns the engine the validator wraps
func (m *MoveValidator) Engine() playable.Engine {
	return m.engine
}

func (m *MoveValidator) decode(state *table.GameState) (playable.GameData, error) {
	if state.GameType != m.engine.Key() {
		return nil, fmt.Errorf("cannot validate %s game with %s engine", state.GameType, m.engine.Key())
	}

	if !state.HasGameData() {
		return nil, ErrGameNotInProgress
	}

	return m.engine.DecodeData(state.GameData)
}

// ValidateMove runs the generic checks and then the rules of the game
func (m *MoveValidator) ValidateMove(state *table.GameState, move *playable.Move, actorID string) error {
	if err := m.Validate(state, actorID); err != nil {
		return err
	}

	data, err := m.decode(state)
	if err != nil {
		return err
	}

	return m.engine.ValidateMove(data, move, actorID)
}

// Apply validates the move and returns the next state
// state is never modified
func (m *MoveValidator) Apply(state *table.GameState, move *playable.Move, actorID string) (*table.GameState, *playable.Outcome, error) {
	if err := m.Validate(state, actorID); err != nil {
		return nil, nil, err
	}

	data, err := m.decode(state)
	if err != nil {
		return nil, nil, err
	}

	outcome, err := m.engine.ProcessMove(data, move, actorID)
	if err != nil {
		return nil, nil, err
	}

	b, err := json.Marshal(outcome.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("could not encode %s game data: %w", m.engine.Key(), err)
	}

	now := m.now()
	next := state.Clone()
	next.GameData = b
	next.MoveCount++

	turn := m.engine.CurrentTurn(outcome.Data)
	if turn != next.CurrentTurn || turn == "" {
		next.TurnStartedAt = now
	}
	next.CurrentTurn = turn

	if outcome.GameOver {
		next.Winners = append([]string(nil), outcome.Winners...)
		next.End(table.StatusFinished, now)
	}

	return next, outcome, nil
}
