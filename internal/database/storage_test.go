package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/store/memory"
	"github.com/stemsi/academia-backend/internal/store/sqlite"
)

type row struct {
	ID int64 `json:"id"`
}

func (r row) GetID() int64 { return r.ID }
func (r row) WithID(id int64) row {
	r.ID = id
	return r
}

func TestOpenBackendMemory(t *testing.T) {
	b, err := OpenBackend(context.Background(), &config.Config{StorageDriver: config.StorageMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()
	if b.Persistent() {
		t.Fatal("memory backend should not be persistent")
	}
	if _, ok := Collection[row](b, "rows").(*memory.Store[row]); !ok {
		t.Fatal("expected memory store")
	}
}

func TestOpenBackendSQLite(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StorageSQLite, SQLitePath: ":memory:"}
	b, err := OpenBackend(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()
	if _, ok := Collection[row](b, "rows").(*sqlite.Store[row]); !ok {
		t.Fatal("expected sqlite store")
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	if _, err := OpenBackend(context.Background(), &config.Config{StorageDriver: "mongo"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
