package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/events"
	"github.com/stemsi/academia-backend/internal/metrics"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

type testEnv struct {
	repos    *repository.Set
	bus      *events.MemoryBus
	metrics  *metrics.Metrics
	lectures *LectureService
	subjects *SubjectService
	students *StudentService
}

func newTestEnv(t *testing.T, enforceCapacity bool) *testEnv {
	t.Helper()
	return newTestEnvWithRepos(t, repository.NewMemorySet(), enforceCapacity)
}

func newTestEnvWithRepos(t *testing.T, repos *repository.Set, enforceCapacity bool) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	bus := events.NewMemoryBus(log)
	t.Cleanup(func() { _ = bus.Close() })
	m := metrics.New()

	return &testEnv{
		repos:    repos,
		bus:      bus,
		metrics:  m,
		lectures: NewLectureService(repos, bus, m, enforceCapacity, log),
		subjects: NewSubjectService(repos.Subjects, repos.Professors, log),
		students: NewStudentService(repos.Students, log),
	}
}

// seedSchool stores one professor and three students, returning their ids.
func (e *testEnv) seedSchool(t *testing.T) (professorID int64, studentIDs []int64) {
	t.Helper()
	ctx := context.Background()

	p, err := e.repos.Professors.Save(ctx, model.Professor{Name: "Prof-KIDO", Major: "Computer Science"})
	if err != nil {
		t.Fatalf("save professor: %v", err)
	}
	for _, name := range []string{"KIDO", "ManDo", "Jobs"} {
		s, err := e.repos.Students.Save(ctx, model.Student{Name: name})
		if err != nil {
			t.Fatalf("save student: %v", err)
		}
		studentIDs = append(studentIDs, s.ID)
	}
	return p.ID, studentIDs
}

func (e *testEnv) newSubject(t *testing.T, professorID int64) model.Subject {
	t.Helper()
	s, err := e.subjects.Apply(context.Background(), model.CreateSubjectRequest{
		Name:        "Basic Computer Science",
		ProfessorID: professorID,
		Credit:      3,
	})
	if err != nil {
		t.Fatalf("apply subject: %v", err)
	}
	return s
}

func ptr[T any](v T) *T { return &v }
