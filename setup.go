package main

import (
	"Awardly/config"
	"Awardly/logging"
	"Awardly/services/blob"
	"Awardly/services/store"
	"context"
)

func setupStore(conf *config.Config) store.Repository {
	if conf.Store == "memory" {
		logging.Log.Warn("Using the in-memory store, nothing survives a restart")
		return store.NewMemoryStore()
	}

	gormDB, err := config.ConnectGORM(conf.PostgresConfig)
	if err != nil {
		logging.Log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	logging.Log.Info("GORM Connected")

	// Only migrate in development or during deployment
	if conf.Migrate {
		logging.Log.Info("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			logging.Log.Fatalf("Database migration failed: %v", err)
		}
	}
	return store.NewGormStore(gormDB)
}

func setupBlobs(ctx context.Context, conf *config.Config) blob.Store {
	if conf.Backend != "s3" {
		scheme := "http"
		if conf.UseHTTPS {
			scheme = "https"
		}
		logging.Log.Warn("Using the in-memory blob store, friend images are served by this instance and lost on restart")
		return blob.NewMemoryStore(scheme + "://localhost:" + conf.Port + "/blobs")
	}
	s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
		Bucket:    conf.Bucket,
		Region:    conf.Region,
		Endpoint:  conf.Endpoint,
		UploadTTL: conf.UploadTTL,
		ReadTTL:   conf.ImageTTL,
	})
	if err != nil {
		logging.Log.Fatalf("Error setting up S3: %v", err)
	}
	logging.Log.WithField("bucket", conf.Bucket).Info("Friend images stored in S3")
	return s3Store
}
