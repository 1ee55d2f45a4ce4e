package room

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MovesAccepted counts moves written to the store
	MovesAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardroom_moves_accepted_total",
			Help: "Total moves accepted and saved",
		},
		[]string{"game_type"},
	)

	// MovesRejected counts moves rejected by the rules or a version conflict
	MovesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardroom_moves_rejected_total",
			Help: "Total moves rejected",
		},
		[]string{"game_type", "reason"},
	)

	// GamesFinished counts games that reached a terminal status
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardroom_games_finished_total",
			Help: "Total games finished or cancelled",
		},
		[]string{"game_type", "status"},
	)
)

func init() {
	prometheus.MustRegister(MovesAccepted)
	prometheus.MustRegister(MovesRejected)
	prometheus.MustRegister(GamesFinished)
}
