package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stemsi/academia-backend/internal/store"
)

type item struct {
	ID   int64
	Name string
	Tags []string
}

func (i item) GetID() int64 { return i.ID }
func (i item) WithID(id int64) item { i.ID = id; return i }
func (i item) Clone() item {
	i.Tags = append([]string(nil), i.Tags...)
	return i
}

func TestUpsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := New[item]()

	a, _ := s.Upsert(ctx, item{Name: "a"})
	b, _ := s.Upsert(ctx, item{Name: "b"})
	if a.ID == 0 || b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d, %d", a.ID, b.ID)
	}
}

func TestUpsertOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	s := New[item]()

	a, _ := s.Upsert(ctx, item{Name: "a"})
	a.Name = "renamed"
	got, _ := s.Upsert(ctx, a)
	if got.ID != a.ID {
		t.Fatalf("id changed on overwrite: %d -> %d", a.ID, got.ID)
	}
	stored, err := s.Get(ctx, a.ID)
	if err != nil || stored.Name != "renamed" {
		t.Fatalf("overwrite not stored: %+v, %v", stored, err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", s.Len())
	}
}

func TestUpsertUnknownIDIssuesNewOne(t *testing.T) {
	ctx := context.Background()
	s := New[item]()

	got, _ := s.Upsert(ctx, item{ID: 42, Name: "x"})
	if got.ID == 42 {
		t.Fatalf("absent id should not be kept")
	}
}

func TestGetMissing(t *testing.T) {
	s := New[item]()
	if _, err := s.Get(context.Background(), 7); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDescending(t *testing.T) {
	ctx := context.Background()
	s := New[item]()
	for range 5 {
		_, _ = s.Upsert(ctx, item{})
	}
	list, _ := s.List(ctx)
	for i := 1; i < len(list); i++ {
		if list[i-1].ID <= list[i].ID {
			t.Fatalf("not descending at %d: %d, %d", i, list[i-1].ID, list[i].ID)
		}
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New[item]()
	a, _ := s.Upsert(ctx, item{})
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRestoreAdvancesSequence(t *testing.T) {
	ctx := context.Background()
	s := New[item]()
	if err := s.Restore(ctx, []item{{ID: 1}, {ID: 3}, {ID: 2}}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Upsert(ctx, item{Name: "new"})
	if got.ID != 4 {
		t.Fatalf("expected first generated id 4, got %d", got.ID)
	}
}

func TestStoredValuesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New[item]()
	in := item{Tags: []string{"a"}}
	saved, _ := s.Upsert(ctx, in)
	in.Tags[0] = "mutated"

	got, _ := s.Get(ctx, saved.ID)
	if got.Tags[0] != "a" {
		t.Fatalf("store shares slice with caller")
	}
	got.Tags[0] = "mutated"
	again, _ := s.Get(ctx, saved.ID)
	if again.Tags[0] != "a" {
		t.Fatalf("store shares slice with reader")
	}
}

func TestConcurrentUpsertsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := New[item]()

	const n = 200
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := s.Upsert(ctx, item{})
			ids <- v.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if s.Len() != n {
		t.Fatalf("expected %d items, got %d", n, s.Len())
	}
}
