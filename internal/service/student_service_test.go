package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/academia-backend/internal/apperror"
	"github.com/stemsi/academia-backend/internal/model"
)

func TestStudentJoin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)

	s, err := env.students.Join(ctx, model.CreateStudentRequest{Name: "KIDO", Age: 20, Major: "ComputerScience"})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if s.ID == 0 || s.EntranceAt.IsZero() {
		t.Fatalf("id or entrance time missing: %+v", s)
	}

	if _, err := env.students.Join(ctx, model.CreateStudentRequest{ID: 3, Name: "Jobs"}); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestStudentModifySparse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	s, _ := env.students.Join(ctx, model.CreateStudentRequest{Name: "ManDo", Age: 35, Major: "Math"})

	got, err := env.students.Modify(ctx, s.ID, model.UpdateStudentRequest{Major: ptr("Physics")})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if got.ID != s.ID || got.Name != "ManDo" || got.Age != 35 || got.Major != "Physics" {
		t.Fatalf("unexpected patch result: %+v", got)
	}
	if !got.EntranceAt.Equal(s.EntranceAt) {
		t.Fatalf("entrance time changed")
	}

	if _, err := env.students.Modify(ctx, 0, model.UpdateStudentRequest{}); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if _, err := env.students.Modify(ctx, 404, model.UpdateStudentRequest{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStudentDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	s, _ := env.students.Join(ctx, model.CreateStudentRequest{Name: "Jobs"})

	if err := env.students.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if err := env.students.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.students.GetByID(ctx, s.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
