package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/store"
)

type StudentRepository struct {
	collection[model.Student]
}

func NewStudentRepository(s store.Store[model.Student]) *StudentRepository {
	return &StudentRepository{collection[model.Student]{store: s}}
}

// GetByMajor returns students whose major matches exactly, newest first.
func (r *StudentRepository) GetByMajor(ctx context.Context, major string) ([]model.Student, error) {
	return r.filter(ctx, func(s model.Student) bool { return s.Major == major })
}
