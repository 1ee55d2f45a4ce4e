package mux

import (
	"cardroom-server/internal/jwt"
	"cardroom-server/pkg/room"
	"context"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ctxKey int

const (
	ctxUserKey ctxKey = iota
	ctxGameKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
		r.Methods(http.MethodGet).Path("/game-types").Handler(this.getGameTypes())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/game").Handler(this.getGame())
		r.Methods(http.MethodPost).Path("/game").Handler(this.postGame())

		gr := r.PathPrefix("/game/{id:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		gr.Use(this.gameMiddleware)

		gr.Methods(http.MethodGet).Path("").Handler(this.getGameID())
		gr.Methods(http.MethodGet).Path("/ws").Handler(this.getGameIDWS())
		gr.Methods(http.MethodPost).Path("/start").Handler(this.postGameIDStart())
		gr.Methods(http.MethodPost).Path("/cancel").Handler(this.postGameIDCancel())
		gr.Methods(http.MethodPost).Path("/move").Handler(this.postGameIDMove())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		userID, err := jwt.ValidUserID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxUserKey, userID)
		w.Header().Set("Cardroom-UserID", userID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func userID(r *http.Request) string {
	return r.Context().Value(ctxUserKey).(string)
}
