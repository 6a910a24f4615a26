package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/apperror"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/store"
)

// lookupErr turns a store miss into a NotFound naming the entity.
func lookupErr(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("%s %d not found", entity, id)
	}
	return fmt.Errorf("get %s %d: %w", entity, id, err)
}

// resolveProfessor returns nil when id does not resolve. Only backend
// failures are reported as errors.
func resolveProfessor(ctx context.Context, repo *repository.ProfessorRepository, id int64, log zerolog.Logger) (*model.Professor, error) {
	if id == 0 {
		return nil, nil
	}
	p, err := repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn().Int64("professor_id", id).Msg("Professor reference does not resolve")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get professor %d: %w", id, err)
	}
	return &p, nil
}

func resolveStudent(ctx context.Context, repo *repository.StudentRepository, id int64, log zerolog.Logger) (*model.Student, error) {
	s, err := repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn().Int64("student_id", id).Msg("Student reference does not resolve")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return &s, nil
}
