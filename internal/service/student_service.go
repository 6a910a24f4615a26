package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/apperror"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// Join registers a new student and stamps the entrance time.
func (s *StudentService) Join(ctx context.Context, req model.CreateStudentRequest) (model.Student, error) {
	if req.ID != 0 {
		return model.Student{}, apperror.InvalidArgument("student id must not be set when joining")
	}

	student, err := s.studentRepo.Save(ctx, model.Student{
		Name:       req.Name,
		Age:        req.Age,
		Major:      req.Major,
		EntranceAt: time.Now().UTC(),
	})
	if err != nil {
		return model.Student{}, err
	}

	s.log.Info().Int64("student_id", student.ID).Str("major", student.Major).Msg("Student joined")
	return student, nil
}

// Modify applies a sparse patch to an existing student.
func (s *StudentService) Modify(ctx context.Context, id int64, req model.UpdateStudentRequest) (model.Student, error) {
	if id == 0 {
		return model.Student{}, apperror.InvalidArgument("student id is required")
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return model.Student{}, lookupErr(err, "student", id)
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Age != nil {
		student.Age = *req.Age
	}
	if req.Major != nil {
		student.Major = *req.Major
	}

	return s.studentRepo.Save(ctx, student)
}

// GetByID retrieves a student by its ID.
func (s *StudentService) GetByID(ctx context.Context, id int64) (model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return model.Student{}, lookupErr(err, "student", id)
	}
	return student, nil
}

// List retrieves all students, newest first.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// ListByMajor retrieves students of the given major, newest first.
func (s *StudentService) ListByMajor(ctx context.Context, major string) ([]model.Student, error) {
	return s.studentRepo.GetByMajor(ctx, major)
}

// Delete removes a student. Deleting an unknown id is not an error.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	return s.studentRepo.Delete(ctx, id)
}
