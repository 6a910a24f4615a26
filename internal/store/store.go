// Package store defines the persistence contract shared by every entity
// collection. Backends live in the memory, sqlite and postgres subpackages.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no entity carries the requested id.
var ErrNotFound = errors.New("entity not found")

// Entity is implemented by value types that carry an int64 identifier.
type Entity[T any] interface {
	GetID() int64
	WithID(id int64) T
}

// Store is a keyed collection of entities of one type.
//
// List returns entities in strictly descending id order. Upsert overwrites in
// place when the id is non-zero and already present, otherwise it issues a new
// id from the collection's sequence. Delete is idempotent. Restore inserts
// entities with their own ids and advances the sequence past them.
type Store[T Entity[T]] interface {
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, items []T) error
}

// Sequence issues identifiers that are strictly increasing per collection.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// Clone returns a deep copy of v when its type provides one.
func Clone[T any](v T) T {
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return v
}
