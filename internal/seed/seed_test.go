package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

func TestDefaultFixturesLoad(t *testing.T) {
	ctx := context.Background()
	f, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	repos := repository.NewMemorySet()
	if err := Apply(ctx, repos, f, zerolog.Nop()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	students, _ := repos.Students.GetAll(ctx)
	if len(students) != 3 || students[0].Name != "Jobs" {
		t.Fatalf("unexpected students: %+v", students)
	}

	lecture, err := repos.Lectures.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("lecture 1: %v", err)
	}
	if len(lecture.AttendedSubjectIDs) != 2 || lecture.State != model.StateApply {
		t.Fatalf("unexpected lecture 1: %+v", lecture)
	}

	graded, _ := repos.AttendedSubjects.GetByID(ctx, 3)
	if graded.Grade != "A+" || graded.State != model.StateDone {
		t.Fatalf("unexpected attended subject 3: %+v", graded)
	}

	// Generated ids continue after the fixtures.
	next, _ := repos.Students.Save(ctx, model.Student{Name: "new"})
	if next.ID != 4 {
		t.Fatalf("expected id 4, got %d", next.ID)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	doc := "students:\n  - { id: 7, name: Solo, age: 30, major: Art }\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Students) != 1 || f.Students[0].ID != 7 {
		t.Fatalf("unexpected fixtures: %+v", f)
	}
}

func TestParseRejectsBrokenReferences(t *testing.T) {
	doc := `
students:
  - { id: 1, name: S, age: 20, major: Math }
professors:
  - { id: 1, name: P, major: Math }
subjects:
  - { id: 1, name: A, professor_id: 1, credit: 3 }
  - { id: 1, name: B, professor_id: 1, credit: 3 }
  - { id: 2, name: C, professor_id: 8, credit: 3 }
attended_subjects:
  - { id: 1, subject_id: 1, student_id: 9, grade: None, state: APPLY }
  - { id: 2, subject_id: 1, student_id: 1, grade: None, state: BOGUS }
lectures:
  - { id: 1, subject_id: 1, professor_id: 1, attended_subject_ids: [1], limit_students: 1, state: APPLY }
  - { id: 2, subject_id: 5, professor_id: 7, attended_subject_ids: [1, 4], limit_students: 1, state: OPEN }
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		"subject 1: duplicate id",
		"unknown student 9",
		"lecture 2: unknown subject 5",
		`unknown state "OPEN"`,
		"unknown attended subject 4",
		"attached to lectures 1 and 2",
		"subject 2: unknown professor 8",
		"lecture 2: unknown professor 7",
		`attended subject 2: unknown state "BOGUS"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
	for _, unwanted := range []string{"lecture 1: unknown professor", "attended subject 1: unknown state"} {
		if strings.Contains(err.Error(), unwanted) {
			t.Errorf("valid row reported: %q", unwanted)
		}
	}
}

func TestEmpty(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemorySet()

	empty, err := Empty(ctx, repos)
	if err != nil || !empty {
		t.Fatalf("fresh set should be empty: %v, %v", empty, err)
	}

	if _, err := repos.Professors.Save(ctx, model.Professor{Name: "Solo"}); err != nil {
		t.Fatal(err)
	}
	empty, err = Empty(ctx, repos)
	if err != nil || empty {
		t.Fatalf("set with a professor should not be empty: %v, %v", empty, err)
	}
}
