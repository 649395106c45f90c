package main

import (
	"Awardly/config"
	"Awardly/logging"
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

// migrate applies the SQL schema under db/migrations.
//
//	go run ./cmd/migrate            # up
//	go run ./cmd/migrate -steps -1  # roll back one migration
func main() {
	source := flag.String("source", "file://db/migrations", "migration source URL")
	steps := flag.Int("steps", 0, "apply n migrations, negative rolls back, 0 applies all")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logging.Log.Debugf("no .env loaded: %v", err)
	}
	config.Load()
	conf := config.ReadConfig()
	logging.BootstrapLogger(conf.LogLevel)

	m, err := migrate.New(*source, conf.DSN())
	if err != nil {
		logging.Log.Fatalf("migration setup failed: %v", err)
	}
	defer m.Close()

	if *steps != 0 {
		err = m.Steps(*steps)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logging.Log.Fatalf("database migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	logging.Log.WithField("version", version).WithField("dirty", dirty).Info("database migrations applied")
}
