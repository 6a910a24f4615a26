package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/store"
)

// Collection names used by every storage backend.
const (
	StudentCollection         = "students"
	ProfessorCollection       = "professors"
	SubjectCollection         = "subjects"
	LectureCollection         = "lectures"
	AttendedSubjectCollection = "attended_subjects"
)

// collection adapts a generic store into the repository method set.
// Lookups of absent ids return store.ErrNotFound.
type collection[T store.Entity[T]] struct {
	store store.Store[T]
}

func (c collection[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return c.store.Get(ctx, id)
}

func (c collection[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.store.List(ctx)
}

// Save inserts v when it has no stored id yet, otherwise overwrites it.
func (c collection[T]) Save(ctx context.Context, v T) (T, error) {
	return c.store.Upsert(ctx, v)
}

func (c collection[T]) Delete(ctx context.Context, id int64) error {
	return c.store.Delete(ctx, id)
}

// Restore loads fixture rows with their own ids.
func (c collection[T]) Restore(ctx context.Context, items []T) error {
	return c.store.Restore(ctx, items)
}

func (c collection[T]) filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}
