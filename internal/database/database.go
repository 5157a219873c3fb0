package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"bookswap/internal/config"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "database").Logger()

const (
	connectAttempts = 5
	connectDelay    = 3 * time.Second
)

// DB is the explicitly constructed client handle passed down through the
// application; there is no package-level connection.
type DB struct {
	*sqlx.DB
}

// Connect opens the Postgres pool, retrying a fixed number of times before
// giving up so the process can start ahead of the database in compose setups.
func Connect(cfg *config.Config) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.SSLMode,
	)

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}
		logger.Warn().Err(err).
			Int("attempt", attempt).
			Int("maxAttempts", connectAttempts).
			Msg("database not reachable, retrying")
		if attempt < connectAttempts {
			time.Sleep(connectDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database after %d attempts: %w", connectAttempts, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info().Str("host", cfg.DB.Host).Str("dbname", cfg.DB.Name).Msg("connected to PostgreSQL")

	return &DB{db}, nil
}

// RunMigrations applies the schema file. The statements are idempotent
// (CREATE ... IF NOT EXISTS), so re-running on every startup is safe.
func (db *DB) RunMigrations(migrationFilePath string) error {
	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		return fmt.Errorf("reading migration file %s: %w", migrationFilePath, err)
	}

	if _, err := db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	logger.Info().Str("file", migrationFilePath).Msg("migrations applied")
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}
