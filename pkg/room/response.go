package room

import (
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/table"
	"time"
)

// GameView is a game as seen by a single user
type GameView struct {
	ID               string             `json:"id"`
	GameType         string             `json:"gameType"`
	Status           table.Status       `json:"status"`
	Players          []*playable.Player `json:"players"`
	CurrentTurn      string             `json:"currentTurn"`
	TurnStartedAt    time.Time          `json:"turnStartedAt"`
	TurnLimitSeconds int                `json:"turnLimitSeconds,omitempty"`
	Winners          []string           `json:"winners"`
	MoveCount        int                `json:"moveCount"`
	Version          int64              `json:"version"`
	Summary          string             `json:"summary,omitempty"`
	GameData         interface{}        `json:"gameData,omitempty"`
	Created          time.Time          `json:"created"`
	Updated          time.Time          `json:"updated"`
	Ended            *time.Time         `json:"ended,omitempty"`
}

// newGameView returns the state as seen by viewerID
// engine may be nil when the game type is no longer registered
func newGameView(state *table.GameState, engine playable.Engine, viewerID string) (*GameView, error) {
	view := &GameView{
		ID:            state.ID,
		GameType:      state.GameType,
		Status:        state.Status,
		Players:       state.Players,
		CurrentTurn:   state.CurrentTurn,
		TurnStartedAt: state.TurnStartedAt,
		Winners:       state.Winners,
		MoveCount:     state.MoveCount,
		Version:       state.Version,
		Created:       state.Created,
		Updated:       state.Updated,
		Ended:         state.Ended,
	}

	if state.Timer != nil {
		view.TurnLimitSeconds = state.Timer.TurnLimitSeconds
	}

	if engine == nil || !state.HasGameData() {
		return view, nil
	}

	data, err := engine.DecodeData(state.GameData)
	if err != nil {
		return nil, err
	}

	view.Summary = engine.Status(data)
	view.GameData = engine.View(data, viewerID)
	return view, nil
}

func newGameResponse(view *GameView) *playable.Response {
	return &playable.Response{
		Key:  "game",
		Data: view,
	}
}

func newLogResponse(messages []*playable.LogMessage) *playable.Response {
	return &playable.Response{
		Key:  "log",
		Data: messages,
	}
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}
