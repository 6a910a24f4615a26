package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORAGE_DRIVER", "EVENT_BUS", "ENFORCE_LECTURE_CAPACITY", "RECONCILE_INTERVAL_SECONDS", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.StorageDriver)
	}
	if cfg.EventBus != EventBusMemory {
		t.Fatalf("expected memory event bus, got %q", cfg.EventBus)
	}
	if cfg.EnforceLectureCapacity {
		t.Fatalf("capacity enforcement must default to off")
	}
	if cfg.ReconcileInterval != time.Minute {
		t.Fatalf("expected 1m reconcile interval, got %s", cfg.ReconcileInterval)
	}
	if cfg.AllowedOrigins != nil {
		t.Fatalf("expected allow-all origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("ENFORCE_LECTURE_CAPACITY", "true")
	t.Setenv("RECONCILE_INTERVAL_SECONDS", "0")
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.StorageDriver != StorageSQLite {
		t.Fatalf("expected sqlite storage, got %q", cfg.StorageDriver)
	}
	if !cfg.EnforceLectureCapacity {
		t.Fatalf("expected capacity enforcement on")
	}
	if cfg.ReconcileInterval != 0 {
		t.Fatalf("expected disabled reconcile interval, got %s", cfg.ReconcileInterval)
	}
	if cfg.MaxDBConns != 16 {
		t.Fatalf("expected fallback max conns 16, got %d", cfg.MaxDBConns)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}
