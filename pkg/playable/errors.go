package playable

import (
	"errors"
	"fmt"
)

// MoveError is returned when a move is rejected
// The state the move was checked against is always left untouched
type MoveError struct {
	Reason string
}

func (m *MoveError) Error() string {
	return m.Reason
}

// NewMoveError returns a new move rejection
func NewMoveError(format string, a ...interface{}) *MoveError {
	return &MoveError{Reason: fmt.Sprintf(format, a...)}
}

// IsMoveError returns true if err is a rejected move
func IsMoveError(err error) bool {
	var me *MoveError
	return errors.As(err, &me)
}

// ErrUnknownMove is returned for a move type the game does not understand
var ErrUnknownMove = NewMoveError("unknown move type")

// ErrNotPlayer is returned when the actor is not seated in the game
var ErrNotPlayer = NewMoveError("player is not in this game")

// ErrNotPlayersTurn is returned when a player acts out of turn
var ErrNotPlayersTurn = NewMoveError("not player's turn")

// ErrGameIsOver is returned when a move is attempted after the game ended
var ErrGameIsOver = NewMoveError("game is over")

// ErrMissingUserID is returned when a player does not have a user ID
var ErrMissingUserID = errors.New("player is missing a user ID")

// ErrWrongGameData is returned when an engine is handed another engine's data
var ErrWrongGameData = errors.New("game data does not belong to this game")

// PlayerCountError is an error on the number of players in the game
type PlayerCountError struct {
	Min int
	Max int
	Got int
}

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d–%d players, got %d", p.Min, p.Max, p.Got)
}
