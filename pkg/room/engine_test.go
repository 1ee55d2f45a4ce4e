package room

import (
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/room/gamefactory"
	"cardroom-server/pkg/table"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var errBadMove = playable.NewMoveError("bad move")

// stubData passes the turn around the table on every "next" move
type stubData struct {
	Players []string `json:"players"`
	Turn    int      `json:"turn"`
	Count   int      `json:"count"`
	Over    bool     `json:"over"`
	Anyone  bool     `json:"anyone"`
}

func (s *stubData) Clone() playable.GameData {
	c := *s
	c.Players = append([]string(nil), s.Players...)
	return &c
}

type stubEngine struct{}

func (stubEngine) Key() string   { return "stub" }
func (stubEngine) Name() string  { return "Stub" }
func (stubEngine) Rules() string { return "take turns" }

func (stubEngine) Initialize(players []*playable.Player, opts playable.AdditionalData, _ int64) (playable.GameData, error) {
	if err := playable.ValidatePlayers(players, 1, 4); err != nil {
		return nil, err
	}

	anyone, _ := opts.GetBool("anyone")
	return &stubData{Players: playable.UserIDs(players), Anyone: anyone}, nil
}

func (stubEngine) validate(data playable.GameData, move *playable.Move) (*stubData, error) {
	s := data.(*stubData)
	if s.Over {
		return nil, playable.ErrGameIsOver
	}

	switch move.Type {
	case "next", "finish":
		return s, nil
	case "bad":
		return nil, errBadMove
	}

	return nil, playable.ErrUnknownMove
}

func (e stubEngine) ValidateMove(data playable.GameData, move *playable.Move, _ string) error {
	_, err := e.validate(data, move)
	return err
}

func (e stubEngine) ProcessMove(data playable.GameData, move *playable.Move, actorID string) (*playable.Outcome, error) {
	s, err := e.validate(data, move)
	if err != nil {
		return nil, err
	}

	ns := s.Clone().(*stubData)
	ns.Count++
	ns.Turn = (ns.Turn + 1) % len(ns.Players)

	outcome := &playable.Outcome{
		Data: ns,
		Log:  playable.SimpleLogMessageSlice(actorID, "{} moved"),
	}

	if move.Type == "finish" {
		ns.Over = true
		outcome.GameOver = true
		outcome.Winners = []string{ns.Players[0]}
	}

	return outcome, nil
}

func (stubEngine) IsGameOver(data playable.GameData) bool {
	return data.(*stubData).Over
}

func (stubEngine) Winners(data playable.GameData) []string {
	if !data.(*stubData).Over {
		return nil
	}

	return data.(*stubData).Players[:1]
}

func (stubEngine) CurrentTurn(data playable.GameData) string {
	s := data.(*stubData)
	if s.Over || s.Anyone {
		return ""
	}

	return s.Players[s.Turn]
}

func (stubEngine) Status(data playable.GameData) string {
	return "stubbing"
}

func (stubEngine) View(data playable.GameData, _ string) interface{} {
	return data
}

func (stubEngine) DecodeData(b []byte) (playable.GameData, error) {
	var s stubData
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

func players(ids ...string) []*playable.Player {
	p := make([]*playable.Player, len(ids))
	for i, id := range ids {
		p[i] = &playable.Player{UserID: id, DisplayName: id, PlayerNumber: i + 1}
	}

	return p
}

// inProgress returns a started stub game
func inProgress(t *testing.T, opts playable.AdditionalData, ids ...string) *table.GameState {
	t.Helper()

	p := players(ids...)
	data, err := stubEngine{}.Initialize(p, opts, 1)
	require.NoError(t, err)

	b, err := json.Marshal(data)
	require.NoError(t, err)

	return &table.GameState{
		ID:            "game",
		GameType:      "stub",
		Status:        table.StatusInProgress,
		Players:       p,
		Options:       opts,
		CurrentTurn:   stubEngine{}.CurrentTurn(data),
		TurnStartedAt: time.Unix(1000, 0),
		GameData:      b,
		Version:       2,
	}
}

func newTestPitBoss(t *testing.T) *PitBoss {
	t.Helper()

	registry := gamefactory.Default(logrus.StandardLogger())
	require.NoError(t, registry.Register(stubEngine{}))

	return NewPitBoss(table.NewMemoryStore(), registry, logrus.StandardLogger())
}
