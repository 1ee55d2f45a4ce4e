package main

import (
	"cardroom-server/internal/config"
	"cardroom-server/pkg/db"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	dbh := waitForDB()
	if err := db.Migrate(dbh, config.Instance().MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

func waitForDB() *sql.DB {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh, err := db.Open(config.Instance().PGDSN)
			if err == nil {
				return dbh
			}

			logrus.WithError(err).Debug("waiting for database")
			time.Sleep(time.Millisecond * 500)
		}
	}
}
