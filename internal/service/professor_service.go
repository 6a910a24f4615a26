package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/apperror"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// ProfessorService handles professor business logic.
type ProfessorService struct {
	professorRepo *repository.ProfessorRepository
	log           zerolog.Logger
}

// NewProfessorService creates a new ProfessorService.
func NewProfessorService(professorRepo *repository.ProfessorRepository, log zerolog.Logger) *ProfessorService {
	return &ProfessorService{
		professorRepo: professorRepo,
		log:           log.With().Str("component", "professor_service").Logger(),
	}
}

// Join registers a new professor and stamps the join time.
func (s *ProfessorService) Join(ctx context.Context, req model.CreateProfessorRequest) (model.Professor, error) {
	if req.ID != 0 {
		return model.Professor{}, apperror.InvalidArgument("professor id must not be set when joining")
	}

	professor, err := s.professorRepo.Save(ctx, model.Professor{
		Name:     req.Name,
		Major:    req.Major,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.Professor{}, err
	}

	s.log.Info().Int64("professor_id", professor.ID).Msg("Professor joined")
	return professor, nil
}

// Modify applies a sparse patch to an existing professor.
func (s *ProfessorService) Modify(ctx context.Context, id int64, req model.UpdateProfessorRequest) (model.Professor, error) {
	if id == 0 {
		return model.Professor{}, apperror.InvalidArgument("professor id is required")
	}

	professor, err := s.professorRepo.GetByID(ctx, id)
	if err != nil {
		return model.Professor{}, lookupErr(err, "professor", id)
	}

	if req.Name != nil {
		professor.Name = *req.Name
	}
	if req.Major != nil {
		professor.Major = *req.Major
	}

	return s.professorRepo.Save(ctx, professor)
}

// GetByID retrieves a professor by its ID.
func (s *ProfessorService) GetByID(ctx context.Context, id int64) (model.Professor, error) {
	professor, err := s.professorRepo.GetByID(ctx, id)
	if err != nil {
		return model.Professor{}, lookupErr(err, "professor", id)
	}
	return professor, nil
}

// List retrieves all professors, newest first.
func (s *ProfessorService) List(ctx context.Context) ([]model.Professor, error) {
	return s.professorRepo.GetAll(ctx)
}

// ListByMajor retrieves professors teaching the given major, newest first.
func (s *ProfessorService) ListByMajor(ctx context.Context, major string) ([]model.Professor, error) {
	return s.professorRepo.GetByMajor(ctx, major)
}

// Delete removes a professor. Subjects that reference it lose their
// enrichment but are left in place.
func (s *ProfessorService) Delete(ctx context.Context, id int64) error {
	return s.professorRepo.Delete(ctx, id)
}
