// Package sqlite persists entity collections as JSON rows in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/stemsi/academia-backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	collection TEXT    NOT NULL,
	id         INTEGER NOT NULL,
	payload    BLOB    NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE TABLE IF NOT EXISTS entity_sequences (
	collection TEXT    PRIMARY KEY,
	value      INTEGER NOT NULL
);`

// Open opens (creating if needed) the database at path and applies the schema.
// The special path ":memory:" yields a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "academia.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; an in-memory database also lives on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// Store is one collection inside the shared entities table.
type Store[T store.Entity[T]] struct {
	db         *sql.DB
	collection string
}

// New binds a store to collection in db.
func New[T store.Entity[T]](db *sql.DB, collection string) *Store[T] {
	return &Store[T]{db: db, collection: collection}
}

func (s *Store[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM entities WHERE collection = ? AND id = ?`, s.collection, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, store.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("select %s %d: %w", s.collection, id, err)
	}
	return decode[T](payload)
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM entities WHERE collection = ? ORDER BY id DESC`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", s.collection, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]T, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		v, err := decode[T](payload)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store[T]) Upsert(ctx context.Context, v T) (T, error) {
	if id := v.GetID(); id != 0 {
		payload, err := json.Marshal(v)
		if err != nil {
			return v, fmt.Errorf("encode %s: %w", s.collection, err)
		}
		res, err := s.db.ExecContext(ctx,
			`UPDATE entities SET payload = ? WHERE collection = ? AND id = ?`, payload, s.collection, id)
		if err != nil {
			return v, fmt.Errorf("update %s %d: %w", s.collection, id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return v, nil
		}
	}

	id, err := s.Next(ctx)
	if err != nil {
		return v, err
	}
	v = v.WithID(id)
	payload, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("encode %s: %w", s.collection, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO entities (collection, id, payload) VALUES (?, ?, ?)`, s.collection, id, payload); err != nil {
		return v, fmt.Errorf("insert %s %d: %w", s.collection, id, err)
	}
	return v, nil
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM entities WHERE collection = ? AND id = ?`, s.collection, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.collection, id, err)
	}
	return nil
}

func (s *Store[T]) Restore(ctx context.Context, items []T) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var highest int64
	for _, v := range items {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.collection, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entities (collection, id, payload) VALUES (?, ?, ?)
			 ON CONFLICT (collection, id) DO UPDATE SET payload = excluded.payload`,
			s.collection, v.GetID(), payload); err != nil {
			return fmt.Errorf("restore %s %d: %w", s.collection, v.GetID(), err)
		}
		highest = max(highest, v.GetID())
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entity_sequences (collection, value) VALUES (?, ?)
		 ON CONFLICT (collection) DO UPDATE SET value = MAX(value, excluded.value)`,
		s.collection, highest); err != nil {
		return fmt.Errorf("advance sequence %s: %w", s.collection, err)
	}
	return tx.Commit()
}

// Next increments and returns the collection's sequence.
func (s *Store[T]) Next(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO entity_sequences (collection, value) VALUES (?, 1)
		 ON CONFLICT (collection) DO UPDATE SET value = value + 1
		 RETURNING value`, s.collection,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next id %s: %w", s.collection, err)
	}
	return id, nil
}

func decode[T any](payload []byte) (T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}
