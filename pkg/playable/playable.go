package playable

import (
	"cardroom-server/pkg/deck"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine is the rule engine for a single game type
// Engines are pure: they perform no I/O and never mutate the GameData they are given
type Engine interface {
	// Key returns the unique identifier of the game type (i.e., "war")
	Key() string

	// Name returns the human readable name of the game
	Name() string

	// Rules returns a human readable description of the rules
	Rules() string

	// Initialize deals a new game for the players
	// Every shuffle in the game is derived from seed
	Initialize(players []*Player, opts AdditionalData, seed int64) (GameData, error)

	// ValidateMove returns nil if the actor can perform the move against data
	ValidateMove(data GameData, move *Move, actorID string) error

	// ProcessMove validates and applies the move
	// On success the outcome contains a new GameData; data itself is never modified
	ProcessMove(data GameData, move *Move, actorID string) (*Outcome, error)

	// IsGameOver returns true if the game has finished
	IsGameOver(data GameData) bool

	// Winners returns the user IDs of the winners, or nil if the game is not over
	Winners(data GameData) []string

	// CurrentTurn returns the user ID that must act next
	// An empty string means any player may act (simultaneous play, or between rounds)
	CurrentTurn(data GameData) string

	// Status returns a human readable status line
	Status(data GameData) string

	// View returns the game data as seen by viewerID with hidden information removed
	View(data GameData, viewerID string) interface{}

	// DecodeData decodes stored GameData
	DecodeData(b []byte) (GameData, error)
}

// GameData is the complete authoritative game specific state
type GameData interface {
	// Clone returns a deep copy. Cards are shared as they are immutable
	Clone() GameData
}

// Outcome is the result of an accepted move
type Outcome struct {
	Data     GameData
	GameOver bool
	Winners  []string
	Log      []*LogMessage
}

// Move is the format we expect from the client
type Move struct {
	Type  string   `json:"type"`
	Bid   *int     `json:"bid,omitempty"`
	Cards []string `json:"cards,omitempty"`
	// Context will be passed back on any outgoing message
	Context string `json:"context,omitempty"`
}

// Card returns the only card in the move
func (m *Move) Card() (string, bool) {
	if len(m.Cards) != 1 {
		return "", false
	}

	return m.Cards[0], true
}

func (m *Move) String() string {
	if m.Bid != nil {
		return fmt.Sprintf("%s(%d)", m.Type, *m.Bid)
	}

	return fmt.Sprintf("%s%v", m.Type, m.Cards)
}

// LogMessage is the format a game should send log messages in
// If PlayerIDs is empty, assume it's a general statement, otherwise the message will be sent like "{player} did X, Y, Z"
type LogMessage struct {
	UUID      string       `json:"uuid"`
	PlayerIDs []string     `json:"playerIds"`
	Cards     []*deck.Card `json:"cards"`
	Message   string       `json:"message"`
	Time      time.Time    `json:"time"`
}

// Response is a container for messages pushed to a client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// AdditionalData provides game options
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	switch val := a[key].(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	}

	return 0, false
}

// GetBool returns a boolean value for the given key
func (a AdditionalData) GetBool(key string) (bool, bool) {
	boolVal, ok := a[key].(bool)
	if !ok {
		return false, false
	}

	return boolVal, true
}

// SimpleLogMessage returns a new LogMessage
func SimpleLogMessage(playerID string, format string, a ...interface{}) *LogMessage {
	var playerIDs []string
	if playerID != "" {
		playerIDs = []string{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}

// SimpleLogMessageSlice returns a single log message
func SimpleLogMessageSlice(playerID string, format string, a ...interface{}) []*LogMessage {
	return []*LogMessage{SimpleLogMessage(playerID, format, a...)}
}

// CardLogMessage returns a new LogMessage that shows cards
func CardLogMessage(playerID string, cards []*deck.Card, format string, a ...interface{}) *LogMessage {
	lm := SimpleLogMessage(playerID, format, a...)
	if len(cards) > 0 {
		lm.Cards = append([]*deck.Card{}, cards...)
	}

	return lm
}
