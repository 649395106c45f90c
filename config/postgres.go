package config

import (
	"Awardly/logging"
	"Awardly/models/postgres"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the connection string, DATABASE_URL wins over the parts
func (c PostgresConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.DBPort, c.Database)
}

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg PostgresConfig) (*gorm.DB, error) {
	// NOTE: See https://github.com/go-gorm/gorm/issues/5409
	sqlDB1, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logging.Log.Errorf("Error connecting to PostgreSQL: %v", err)
		return nil, err
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if cfg.Verbose {
		gormConfig.Logger = logger.New(
			logging.Log, // io writer
			logger.Config{
				SlowThreshold:             time.Second, // Slow SQL threshold
				LogLevel:                  logger.Info, // Log level (Silent, Error, Warn, Info)
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB1,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		logging.Log.Errorf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	// Get the underlying SQL DB object
	sqlDB, err := db.DB()
	if err != nil {
		logging.Log.Errorf("Error getting underlying SQL DB: %v", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		logging.Log.Errorf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logging.Log.Info("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database.
// Deployments that manage the schema with cmd/migrate leave it off.
func MigrateDatabase(db *gorm.DB) error {
	// NOTE: postgres driver v1.4.0, see https://github.com/pilinux/gorest/issues/167#issuecomment-1947114560
	// NOTE: for more info, execute db.Debug().AutoMigrate(...)
	err := db.AutoMigrate(
		postgres.Lobby{},
		postgres.Friend{},
		postgres.Award{},
		postgres.Vote{})
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logging.Log.Info("PostgreSQL database migrated successfully")

	return nil
}
