// Package seed loads the fixture rows the service starts with.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type studentRow struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Age   int    `yaml:"age"`
	Major string `yaml:"major"`
}

type professorRow struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Major string `yaml:"major"`
}

type subjectRow struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	ProfessorID int64  `yaml:"professor_id"`
	Credit      int    `yaml:"credit"`
}

type attendedSubjectRow struct {
	ID        int64  `yaml:"id"`
	SubjectID int64  `yaml:"subject_id"`
	StudentID int64  `yaml:"student_id"`
	Grade     string `yaml:"grade"`
	State     string `yaml:"state"`
}

type lectureRow struct {
	ID                 int64   `yaml:"id"`
	SubjectID          int64   `yaml:"subject_id"`
	ProfessorID        int64   `yaml:"professor_id"`
	AttendedSubjectIDs []int64 `yaml:"attended_subject_ids"`
	LimitStudents      int     `yaml:"limit_students"`
	State              string  `yaml:"state"`
}

// Fixtures is the decoded content of a fixture file.
type Fixtures struct {
	Students         []studentRow         `yaml:"students"`
	Professors       []professorRow       `yaml:"professors"`
	Subjects         []subjectRow         `yaml:"subjects"`
	AttendedSubjects []attendedSubjectRow `yaml:"attended_subjects"`
	Lectures         []lectureRow         `yaml:"lectures"`
}

// Load reads fixtures from path, or the built-in set when path is empty.
func Load(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a fixture document.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixtures) validate() error {
	var errs error

	students := idSet(f.Students, func(r studentRow) int64 { return r.ID }, "student", &errs)
	professors := idSet(f.Professors, func(r professorRow) int64 { return r.ID }, "professor", &errs)
	subjects := idSet(f.Subjects, func(r subjectRow) int64 { return r.ID }, "subject", &errs)
	attended := idSet(f.AttendedSubjects, func(r attendedSubjectRow) int64 { return r.ID }, "attended subject", &errs)
	idSet(f.Lectures, func(r lectureRow) int64 { return r.ID }, "lecture", &errs)

	for _, sub := range f.Subjects {
		if !professors[sub.ProfessorID] {
			errs = errors.Join(errs, fmt.Errorf("subject %d: unknown professor %d", sub.ID, sub.ProfessorID))
		}
	}

	for _, a := range f.AttendedSubjects {
		if !model.State(a.State).Valid() {
			errs = errors.Join(errs, fmt.Errorf("attended subject %d: unknown state %q", a.ID, a.State))
		}
		if !students[a.StudentID] {
			errs = errors.Join(errs, fmt.Errorf("attended subject %d: unknown student %d", a.ID, a.StudentID))
		}
		if !subjects[a.SubjectID] {
			errs = errors.Join(errs, fmt.Errorf("attended subject %d: unknown subject %d", a.ID, a.SubjectID))
		}
	}

	owner := make(map[int64]int64)
	for _, l := range f.Lectures {
		if !subjects[l.SubjectID] {
			errs = errors.Join(errs, fmt.Errorf("lecture %d: unknown subject %d", l.ID, l.SubjectID))
		}
		if !professors[l.ProfessorID] {
			errs = errors.Join(errs, fmt.Errorf("lecture %d: unknown professor %d", l.ID, l.ProfessorID))
		}
		if !model.State(l.State).Valid() {
			errs = errors.Join(errs, fmt.Errorf("lecture %d: unknown state %q", l.ID, l.State))
		}
		for _, id := range l.AttendedSubjectIDs {
			if !attended[id] {
				errs = errors.Join(errs, fmt.Errorf("lecture %d: unknown attended subject %d", l.ID, id))
			}
			if prev, ok := owner[id]; ok {
				errs = errors.Join(errs, fmt.Errorf("attended subject %d is attached to lectures %d and %d", id, prev, l.ID))
			}
			owner[id] = l.ID
		}
	}
	return errs
}

func idSet[R any](rows []R, id func(R) int64, kind string, errs *error) map[int64]bool {
	set := make(map[int64]bool, len(rows))
	for _, r := range rows {
		v := id(r)
		if v <= 0 {
			*errs = errors.Join(*errs, fmt.Errorf("%s: id must be positive, got %d", kind, v))
			continue
		}
		if set[v] {
			*errs = errors.Join(*errs, fmt.Errorf("%s %d: duplicate id", kind, v))
		}
		set[v] = true
	}
	return set
}

// Apply restores every fixture row into repos, keeping fixture ids.
func Apply(ctx context.Context, repos *repository.Set, f *Fixtures, log zerolog.Logger) error {
	now := time.Now().UTC()

	students := make([]model.Student, 0, len(f.Students))
	for _, r := range f.Students {
		students = append(students, model.Student{ID: r.ID, Name: r.Name, Age: r.Age, Major: r.Major, EntranceAt: now})
	}
	professors := make([]model.Professor, 0, len(f.Professors))
	for _, r := range f.Professors {
		professors = append(professors, model.Professor{ID: r.ID, Name: r.Name, Major: r.Major, JoinedAt: now})
	}
	subjects := make([]model.Subject, 0, len(f.Subjects))
	for _, r := range f.Subjects {
		subjects = append(subjects, model.Subject{ID: r.ID, Name: r.Name, ProfessorID: r.ProfessorID, Credit: r.Credit})
	}
	attended := make([]model.AttendedSubject, 0, len(f.AttendedSubjects))
	for _, r := range f.AttendedSubjects {
		grade := r.Grade
		if grade == "" {
			grade = model.DefaultGrade
		}
		attended = append(attended, model.AttendedSubject{
			ID:        r.ID,
			SubjectID: r.SubjectID,
			StudentID: r.StudentID,
			Grade:     grade,
			State:     model.State(r.State),
		})
	}
	lectures := make([]model.Lecture, 0, len(f.Lectures))
	for _, r := range f.Lectures {
		ids := r.AttendedSubjectIDs
		if ids == nil {
			ids = []int64{}
		}
		lectures = append(lectures, model.Lecture{
			ID:                 r.ID,
			SubjectID:          r.SubjectID,
			ProfessorID:        r.ProfessorID,
			AttendedSubjectIDs: ids,
			LimitStudents:      r.LimitStudents,
			State:              model.State(r.State),
		})
	}

	if err := repos.Students.Restore(ctx, students); err != nil {
		return fmt.Errorf("restore students: %w", err)
	}
	if err := repos.Professors.Restore(ctx, professors); err != nil {
		return fmt.Errorf("restore professors: %w", err)
	}
	if err := repos.Subjects.Restore(ctx, subjects); err != nil {
		return fmt.Errorf("restore subjects: %w", err)
	}
	if err := repos.AttendedSubjects.Restore(ctx, attended); err != nil {
		return fmt.Errorf("restore attended subjects: %w", err)
	}
	if err := repos.Lectures.Restore(ctx, lectures); err != nil {
		return fmt.Errorf("restore lectures: %w", err)
	}

	log.Info().
		Int("students", len(students)).
		Int("professors", len(professors)).
		Int("subjects", len(subjects)).
		Int("attended_subjects", len(attended)).
		Int("lectures", len(lectures)).
		Msg("Fixtures loaded")
	return nil
}

// Empty reports whether repos holds no students, professors, subjects or
// lectures. Persistent backends are only seeded when empty.
func Empty(ctx context.Context, repos *repository.Set) (bool, error) {
	students, err := repos.Students.GetAll(ctx)
	if err != nil || len(students) > 0 {
		return false, err
	}
	professors, err := repos.Professors.GetAll(ctx)
	if err != nil || len(professors) > 0 {
		return false, err
	}
	subjects, err := repos.Subjects.GetAll(ctx)
	if err != nil || len(subjects) > 0 {
		return false, err
	}
	lectures, err := repos.Lectures.GetAll(ctx)
	if err != nil || len(lectures) > 0 {
		return false, err
	}
	return true, nil
}
