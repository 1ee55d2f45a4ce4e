package main

import (
	"cardroom-server/internal/config"
	"cardroom-server/internal/jwt"
	"cardroom-server/internal/mux"
	"cardroom-server/pkg/db"
	"cardroom-server/pkg/room"
	"cardroom-server/pkg/room/gamefactory"
	"cardroom-server/pkg/table"
	"context"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the config")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	cfg := config.Instance()
	if *addr == "" {
		*addr = cfg.Addr
	}

	store, actionLog := setupStore(cfg)

	pitBoss := room.NewPitBoss(store, gamefactory.Default(logrus.StandardLogger()), logrus.StandardLogger())
	pitBoss.ActionLog = actionLog
	pitBoss.DefaultTurnLimitSeconds = cfg.Game.DefaultTurnLimit

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// setupStore returns the game store and action log for the configured driver
func setupStore(cfg config.Config) (table.Store, table.ActionLog) {
	log := logrus.WithField("driver", cfg.Store.Driver)

	switch cfg.Store.Driver {
	case config.StorePostgres:
		// run the db migrations
		if err := db.Migrate(db.Instance(), cfg.MigrationsPath); err != nil {
			log.WithError(err).Fatal("could not run migrations")
		}

		log.Info("using postgres game store")
		return table.NewPostgresStore(db.Instance()), table.NopActionLog{}
	case config.StoreRedis:
		client, err := table.NewRedisClient(context.Background(), table.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err != nil {
			log.WithError(err).Fatal("could not connect to redis")
		}

		store := table.NewRedisStore(client, cfg.Redis.Prefix)
		store.FinishedTTL = time.Hour * 24 * 7

		log.WithField("redisAddr", cfg.Redis.Addr).Info("using redis game store")
		return store, table.NewRedisActionLog(client, cfg.Redis.ActionQueue)
	}

	log.Warn("using in-memory game store, games are lost on restart")
	return table.NewMemoryStore(), table.NopActionLog{}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
