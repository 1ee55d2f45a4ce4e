package mux

import (
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/table"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type gameTypeResponse struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Rules string `json:"rules"`
}

func (m *Mux) getGameTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engines := m.pitBoss.Registry().Types()
		types := make([]gameTypeResponse, len(engines))
		for i, engine := range engines {
			types[i] = gameTypeResponse{
				Key:   engine.Key(),
				Name:  engine.Name(),
				Rules: engine.Rules(),
			}
		}

		writeJSON(w, http.StatusOK, types)
	}
}

func (m *Mux) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		status := table.Status(strings.ToUpper(r.FormValue("status")))
		if status == "" {
			status = table.StatusInProgress
		}

		ids, err := m.pitBoss.Games(r.Context(), status)
		if err != nil {
			writeGameError(w, err)
			return
		}

		if start >= int64(len(ids)) {
			ids = []string{}
		} else {
			ids = ids[start:]
		}

		if len(ids) > rows {
			ids = ids[:rows]
		}

		writeJSON(w, http.StatusOK, ids)
	}
}

type postGamePayload struct {
	GameType         string                  `json:"gameType"`
	Players          []*playable.Player      `json:"players"`
	Options          playable.AdditionalData `json:"options"`
	TurnLimitSeconds *int                    `json:"turnLimitSeconds"`
}

func (m *Mux) postGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postGamePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		var timer *table.TimerConfig
		if pp.TurnLimitSeconds != nil {
			timer = &table.TimerConfig{TurnLimitSeconds: *pp.TurnLimitSeconds}
		}

		state, err := m.pitBoss.CreateGame(r.Context(), pp.GameType, pp.Players, pp.Options, timer)
		if err != nil {
			writeGameError(w, err)
			return
		}

		m.writeView(w, r, http.StatusCreated, state.ID)
	}
}

func (m *Mux) getGameID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.writeView(w, r, http.StatusOK, gameID(r))
	}
}

func (m *Mux) postGameIDStart() http.Handler {
	return m.seatedOnly(func(w http.ResponseWriter, r *http.Request) {
		if _, err := m.pitBoss.StartGame(r.Context(), gameID(r)); err != nil {
			writeGameError(w, err)
			return
		}

		m.writeView(w, r, http.StatusOK, gameID(r))
	})
}

func (m *Mux) postGameIDCancel() http.Handler {
	return m.seatedOnly(func(w http.ResponseWriter, r *http.Request) {
		if _, err := m.pitBoss.CancelGame(r.Context(), gameID(r)); err != nil {
			writeGameError(w, err)
			return
		}

		m.writeView(w, r, http.StatusOK, gameID(r))
	})
}

func (m *Mux) postGameIDMove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var move playable.Move
		if !decodeRequest(w, r, &move) {
			return
		}

		if _, err := m.pitBoss.SubmitMove(r.Context(), gameID(r), userID(r), &move); err != nil {
			writeGameError(w, err)
			return
		}

		m.writeView(w, r, http.StatusOK, gameID(r))
	}
}

func (m *Mux) writeView(w http.ResponseWriter, r *http.Request, statusCode int, id string) {
	view, err := m.pitBoss.View(r.Context(), id, userID(r))
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, statusCode, view)
}

// seatedOnly requires the user to be a player in the game
func (m *Mux) seatedOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := r.Context().Value(ctxGameKey).(*table.GameState)
		if !state.HasPlayer(userID(r)) {
			writeJSONError(w, http.StatusForbidden, errors.New("you are not a player in this game"))
			return
		}

		next(w, r)
	})
}

func (m *Mux) gameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.ToLower(mux.Vars(r)["id"])
		state, err := m.pitBoss.GetGame(r.Context(), id)
		if err != nil {
			writeGameError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxGameKey, state)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func gameID(r *http.Request) string {
	return r.Context().Value(ctxGameKey).(*table.GameState).ID
}
