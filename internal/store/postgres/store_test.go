package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/academia-backend/internal/store"
)

type note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func (n note) GetID() int64 { return n.ID }
func (n note) WithID(id int64) note {
	n.ID = id
	return n
}

// Runs only against a migrated database named by TEST_DATABASE_URL.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	collection := "notes_" + t.Name()
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM entities WHERE collection = $1`, collection)
		_, _ = pool.Exec(ctx, `DELETE FROM entity_sequences WHERE collection = $1`, collection)
	})
	s := New[note](pool, collection)

	if err := s.Restore(ctx, []note{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	c, err := s.Upsert(ctx, note{Text: "c"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if c.ID != 3 {
		t.Fatalf("expected id 3, got %d", c.ID)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != 3 || list[2].ID != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
