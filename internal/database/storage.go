package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/store"
	"github.com/stemsi/academia-backend/internal/store/memory"
	"github.com/stemsi/academia-backend/internal/store/postgres"
	"github.com/stemsi/academia-backend/internal/store/sqlite"
)

// Backend holds the connection shared by every collection of the configured driver.
type Backend struct {
	Driver config.StorageDriver
	SQLite *sql.DB
	Pool   *pgxpool.Pool
}

// OpenBackend connects to the storage driver selected in cfg.
func OpenBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory, "":
		log.Info().Msg("Using in-memory storage")
		return &Backend{Driver: config.StorageMemory}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("SQLite opened")
		return &Backend{Driver: config.StorageSQLite, SQLite: db}, nil
	case config.StoragePostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Backend{Driver: config.StoragePostgres, Pool: pool}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close releases the underlying connection, if any.
func (b *Backend) Close() {
	if b.SQLite != nil {
		_ = b.SQLite.Close()
	}
	if b.Pool != nil {
		b.Pool.Close()
	}
}

// Persistent reports whether collections outlive the process.
func (b *Backend) Persistent() bool {
	return b.Driver != config.StorageMemory
}

// Collection returns the store for name on backend b.
func Collection[T store.Entity[T]](b *Backend, name string) store.Store[T] {
	switch b.Driver {
	case config.StorageSQLite:
		return sqlite.New[T](b.SQLite, name)
	case config.StoragePostgres:
		return postgres.New[T](b.Pool, name)
	default:
		return memory.New[T]()
	}
}
