package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("apply enrollment: %w", NotFound("student %d not found", 7))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("not found must not match conflict")
	}
	if got := Message(err); got != "student 7 not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestMessageFallsBackToPlainErrors(t *testing.T) {
	if got := Message(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&Error{Kind: ErrConflict}).Error(); got != "conflict" {
		t.Fatalf("expected kind text, got %q", got)
	}
}
