package table

import (
	"bytes"
	"cardroom-server/pkg/playable"
	"encoding/json"
	"time"
)

// Status is the lifecycle status of a game
type Status string

// status constants
const (
	StatusWaiting    Status = "WAITING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
	StatusCancelled  Status = "CANCELLED"
)

// IsOver returns true if the game is archived
func (s Status) IsOver() bool {
	return s == StatusFinished || s == StatusCancelled
}

// TimerConfig limits how long a player has to make a move
type TimerConfig struct {
	TurnLimitSeconds int `json:"turnLimitSeconds"`
}

// TurnLimit returns the limit as a duration
func (t *TimerConfig) TurnLimit() time.Duration {
	return time.Duration(t.TurnLimitSeconds) * time.Second
}

// GameState is the envelope around the game specific data
// The GameData is stored encoded, the engine for GameType decodes it
type GameState struct {
	ID            string                  `json:"id"`
	GameType      string                  `json:"gameType"`
	Status        Status                  `json:"status"`
	Players       []*playable.Player      `json:"players"`
	Options       playable.AdditionalData `json:"options"`
	Seed          int64                   `json:"seed"`
	CurrentTurn   string                  `json:"currentTurn"`
	TurnStartedAt time.Time               `json:"turnStartedAt"`
	Timer         *TimerConfig            `json:"timer"`
	GameData      json.RawMessage         `json:"gameData,omitempty"`
	Winners       []string                `json:"winners"`
	MoveCount     int                     `json:"moveCount"`
	// Version is incremented on every write, a write against a stale version fails
	Version int64      `json:"version"`
	Created time.Time  `json:"created"`
	Updated time.Time  `json:"updated"`
	Ended   *time.Time `json:"ended"`
}

// Clone returns a copy that shares nothing with the original
func (g *GameState) Clone() *GameState {
	ng := *g

	ng.Players = make([]*playable.Player, len(g.Players))
	for i, p := range g.Players {
		np := *p
		ng.Players[i] = &np
	}

	if g.Options != nil {
		ng.Options = make(playable.AdditionalData, len(g.Options))
		for k, v := range g.Options {
			ng.Options[k] = v
		}
	}

	if g.Timer != nil {
		timer := *g.Timer
		ng.Timer = &timer
	}

	if g.Ended != nil {
		ended := *g.Ended
		ng.Ended = &ended
	}

	ng.GameData = append(json.RawMessage(nil), g.GameData...)
	ng.Winners = append([]string(nil), g.Winners...)
	return &ng
}

// HasGameData returns false until the game is dealt
// A JSON null counts as no game data
func (g *GameState) HasGameData() bool {
	data := bytes.TrimSpace(g.GameData)
	return len(data) > 0 && !bytes.Equal(data, []byte("null"))
}

// Player returns the seated player with the user ID
func (g *GameState) Player(userID string) (*playable.Player, bool) {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p, true
		}
	}

	return nil, false
}

// HasPlayer returns true if the user is seated in the game
func (g *GameState) HasPlayer(userID string) bool {
	_, ok := g.Player(userID)
	return ok
}

// End marks the game as over
func (g *GameState) End(status Status, now time.Time) {
	g.Status = status
	g.CurrentTurn = ""
	g.Ended = &now
}
