// Package memory provides a mutex-guarded in-process Store.
package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/stemsi/academia-backend/internal/store"
)

// Sequence is a lock-free counter. The first issued id is one past the
// highest id seen so far.
type Sequence struct {
	last atomic.Int64
}

// Next returns the next identifier.
func (s *Sequence) Next(context.Context) (int64, error) {
	return s.last.Add(1), nil
}

// advance moves the counter forward to at least id.
func (s *Sequence) advance(id int64) {
	for {
		cur := s.last.Load()
		if cur >= id || s.last.CompareAndSwap(cur, id) {
			return
		}
	}
}

// Store keeps entity values in a map keyed by id.
type Store[T store.Entity[T]] struct {
	mu    sync.RWMutex
	items map[int64]T
	seq   Sequence
}

// New returns an empty store.
func New[T store.Entity[T]]() *Store[T] {
	return &Store[T]{items: make(map[int64]T)}
}

func (s *Store[T]) Get(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return store.Clone(v), nil
}

func (s *Store[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	out := make([]T, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, store.Clone(v))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b T) int {
		switch {
		case a.GetID() > b.GetID():
			return -1
		case a.GetID() < b.GetID():
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *Store[T]) Upsert(ctx context.Context, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id := v.GetID(); id != 0 {
		if _, ok := s.items[id]; ok {
			s.items[id] = store.Clone(v)
			return v, nil
		}
	}

	id, _ := s.seq.Next(ctx)
	v = v.WithID(id)
	s.items[id] = store.Clone(v)
	return v, nil
}

func (s *Store[T]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

func (s *Store[T]) Restore(_ context.Context, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range items {
		id := v.GetID()
		s.items[id] = store.Clone(v)
		s.seq.advance(id)
	}
	return nil
}

// Len returns the number of stored entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
