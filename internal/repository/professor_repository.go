package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/store"
)

type ProfessorRepository struct {
	collection[model.Professor]
}

func NewProfessorRepository(s store.Store[model.Professor]) *ProfessorRepository {
	return &ProfessorRepository{collection[model.Professor]{store: s}}
}

// GetByMajor returns professors whose major matches exactly, newest first.
func (r *ProfessorRepository) GetByMajor(ctx context.Context, major string) ([]model.Professor, error) {
	return r.filter(ctx, func(p model.Professor) bool { return p.Major == major })
}
