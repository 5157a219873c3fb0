package app

import (
	"fmt"

	"bookswap/internal/config"
	"bookswap/internal/database"
	"bookswap/internal/repository"
	"bookswap/internal/service"
	"bookswap/internal/storage"
)

// App wires the stores and services together. The database handle is
// returned so the caller owns its lifecycle.
func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting database: %w", err)
	}

	if err := db.RunMigrations("migrations/001_create_tables.sql"); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("initializing MinIO: %w", err)
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient)

	return db, repo, services, nil
}
