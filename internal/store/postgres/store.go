// Package postgres persists entity collections as JSONB rows through a pgx pool.
// The schema is owned by the migrations directory.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/academia-backend/internal/store"
)

// DB is the subset of pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DB = (*pgxpool.Pool)(nil)

// Store is one collection inside the shared entities table.
type Store[T store.Entity[T]] struct {
	db         DB
	collection string
}

// New binds a store to collection.
func New[T store.Entity[T]](db DB, collection string) *Store[T] {
	return &Store[T]{db: db, collection: collection}
}

func (s *Store[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM entities WHERE collection = $1 AND id = $2`, s.collection, id,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, store.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("select %s %d: %w", s.collection, id, err)
	}
	return decode[T](payload)
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	rows, err := s.db.Query(ctx,
		`SELECT payload FROM entities WHERE collection = $1 ORDER BY id DESC`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", s.collection, err)
	}
	defer rows.Close()

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
		tag, err := s.db.Exec(ctx,
			`UPDATE entities SET payload = $1 WHERE collection = $2 AND id = $3`, payload, s.collection, id)
		if err != nil {
			return v, fmt.Errorf("update %s %d: %w", s.collection, id, err)
		}
		if tag.RowsAffected() > 0 {
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
	if _, err := s.db.Exec(ctx,
		`INSERT INTO entities (collection, id, payload) VALUES ($1, $2, $3)`, s.collection, id, payload); err != nil {
		return v, fmt.Errorf("insert %s %d: %w", s.collection, id, err)
	}
	return v, nil
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx,
		`DELETE FROM entities WHERE collection = $1 AND id = $2`, s.collection, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.collection, id, err)
	}
	return nil
}

func (s *Store[T]) Restore(ctx context.Context, items []T) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var highest int64
	for _, v := range items {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.collection, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO entities (collection, id, payload) VALUES ($1, $2, $3)
			 ON CONFLICT (collection, id) DO UPDATE SET payload = EXCLUDED.payload`,
			s.collection, v.GetID(), payload); err != nil {
			return fmt.Errorf("restore %s %d: %w", s.collection, v.GetID(), err)
		}
		highest = max(highest, v.GetID())
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO entity_sequences (collection, value) VALUES ($1, $2)
		 ON CONFLICT (collection) DO UPDATE SET value = GREATEST(entity_sequences.value, EXCLUDED.value)`,
		s.collection, highest); err != nil {
		return fmt.Errorf("advance sequence %s: %w", s.collection, err)
	}
	return tx.Commit(ctx)
}

// Next increments and returns the collection's sequence.
func (s *Store[T]) Next(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO entity_sequences (collection, value) VALUES ($1, 1)
		 ON CONFLICT (collection) DO UPDATE SET value = entity_sequences.value + 1
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
