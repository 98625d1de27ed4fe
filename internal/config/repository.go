package config

import (
	"fmt"
	"os"

	"task-viewer/internal/repository"
	"task-viewer/internal/repository/postgres"
	"task-viewer/internal/repository/sqlite"
)

// CreateBackend opens the backend selected by config.Backend
func CreateBackend(config *Config) (repository.Backend, error) {
	switch config.Backend {
	case BackendPostgres:
		store, err := postgres.New(PostgresOptions(config))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store, nil
	case BackendSQLite, "":
		store, err := sqlite.NewWithOptions(SQLiteOptions(config))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil
	default:
		return nil, &ConfigError{Field: "backend", Message: "unknown backend " + config.Backend}
	}
}

// CreateTestBackend creates an in-memory local backend for testing
func CreateTestBackend() (repository.Backend, error) {
	store, err := sqlite.New(sqlite.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return store, nil
}

// SQLiteOptions maps the configuration onto the local backend's options
func SQLiteOptions(config *Config) sqlite.Options {
	return sqlite.Options{
		Path:           config.GetDatabasePath(),
		QueryTimeout:   config.GetQueryTimeout(),
		WriteTimeout:   config.GetWriteTimeout(),
		WatchInterval:  config.Database.WatchInterval,
		DirPermissions: os.FileMode(config.Database.DirPermissions),
	}
}

// PostgresOptions maps the configuration onto the remote backend's options
func PostgresOptions(config *Config) postgres.Options {
	return postgres.Options{
		DSN:          config.PostgresDSN(),
		QueryTimeout: config.GetQueryTimeout(),
		WriteTimeout: config.GetWriteTimeout(),
		PingAttempts: config.Postgres.PingAttempts,
	}
}
