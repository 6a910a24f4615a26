package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/apperror"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// SubjectService handles subjects. Every subject it returns carries its
// professor, or nil when professor_id does not resolve.
type SubjectService struct {
	subjectRepo   *repository.SubjectRepository
	professorRepo *repository.ProfessorRepository
	log           zerolog.Logger
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, professorRepo *repository.ProfessorRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo:   subjectRepo,
		professorRepo: professorRepo,
		log:           log.With().Str("component", "subject_service").Logger(),
	}
}

// Apply creates a subject.
func (s *SubjectService) Apply(ctx context.Context, req model.CreateSubjectRequest) (model.Subject, error) {
	if req.ID != 0 {
		return model.Subject{}, apperror.InvalidArgument("subject id must not be set when applying")
	}

	subject, err := s.subjectRepo.Save(ctx, model.Subject{
		Name:        req.Name,
		ProfessorID: req.ProfessorID,
		Credit:      req.Credit,
	})
	if err != nil {
		return model.Subject{}, err
	}

	s.log.Info().Int64("subject_id", subject.ID).Int64("professor_id", subject.ProfessorID).Msg("Subject applied")
	return s.enrich(ctx, subject)
}

// Modify applies a sparse patch to an existing subject.
func (s *SubjectService) Modify(ctx context.Context, id int64, req model.UpdateSubjectRequest) (model.Subject, error) {
	if id == 0 {
		return model.Subject{}, apperror.InvalidArgument("subject id is required")
	}

	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return model.Subject{}, lookupErr(err, "subject", id)
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.ProfessorID != nil {
		subject.ProfessorID = *req.ProfessorID
	}
	if req.Credit != nil {
		subject.Credit = *req.Credit
	}

	subject.Professor = nil
	subject, err = s.subjectRepo.Save(ctx, subject)
	if err != nil {
		return model.Subject{}, err
	}
	return s.enrich(ctx, subject)
}

// GetByID retrieves an enriched subject.
func (s *SubjectService) GetByID(ctx context.Context, id int64) (model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return model.Subject{}, lookupErr(err, "subject", id)
	}
	return s.enrich(ctx, subject)
}

// List retrieves all subjects, newest first, enriched.
func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if subjects[i], err = s.enrich(ctx, subjects[i]); err != nil {
			return nil, err
		}
	}
	return subjects, nil
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	return s.subjectRepo.Delete(ctx, id)
}

func (s *SubjectService) enrich(ctx context.Context, subject model.Subject) (model.Subject, error) {
	professor, err := resolveProfessor(ctx, s.professorRepo, subject.ProfessorID, s.log)
	if err != nil {
		return model.Subject{}, err
	}
	subject.Professor = professor
	return subject, nil
}
