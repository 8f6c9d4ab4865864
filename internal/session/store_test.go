package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/repository"
	"github.com/kjannette/cryptochat/internal/testutil"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	id, err := s.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !ValidID(id) {
		t.Fatalf("Create returned malformed id %q", id)
	}

	h, err := s.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	msgs, err := h.Messages(ctx)
	if err != nil || len(msgs) != 0 {
		t.Fatalf("new session should be empty: %v %v", msgs, err)
	}

	for _, c := range []string{"one", "two", "three", "four"} {
		role := models.RoleUser
		if c == "two" || c == "four" {
			role = models.RoleAssistant
		}
		if err := h.Append(ctx, models.NewMessage(role, c)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// Reopen to read through a fresh handle.
	h2, err := s.Open(ctx, id)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	msgs, err = h2.Messages(ctx)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	want := []string{"one", "two", "three", "four"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, w := range want {
		if msgs[i].Content != w {
			t.Fatalf("message %d: got %q want %q", i, msgs[i].Content, w)
		}
	}
	if msgs[1].Role != models.RoleAssistant {
		t.Fatalf("role not preserved: %+v", msgs[1])
	}

	other, err := s.Create(ctx)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	oh, _ := s.Open(ctx, other)
	if om, _ := oh.Messages(ctx); len(om) != 0 {
		t.Fatalf("sessions leaked into each other: %v", om)
	}

	if _, err := s.Open(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	exerciseStore(t, NewRedisStore(testutil.SetupRedis(t)))
}

func TestPostgresStore(t *testing.T) {
	pool := testutil.SetupPool(t)
	exerciseStore(t, NewPostgresStore(repository.NewSessionRepo(pool)))
}

func TestValidID(t *testing.T) {
	if ValidID("not-a-uuid") || ValidID("") {
		t.Fatal("expected invalid ids to be rejected")
	}
	if !ValidID(newID()) {
		t.Fatal("generated id should be valid")
	}
}

func TestLocks_SerializeSameID(t *testing.T) {
	l := NewLocks()
	var inside atomic.Int32
	var maxSeen atomic.Int32

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("a")
			defer unlock()
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	if maxSeen.Load() != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen.Load())
	}
	if l.Len() != 0 {
		t.Fatalf("expected released ids to be dropped, %d left", l.Len())
	}
}

func TestLocks_ReleasedAfterLastHolder(t *testing.T) {
	l := NewLocks()

	unlockA := l.Lock("a")
	waiting := make(chan struct{})
	acquired := make(chan func())
	go func() {
		close(waiting)
		acquired <- l.Lock("a")
	}()
	<-waiting

	unlockB := l.Lock("b")
	unlockB()
	if l.Len() != 1 {
		t.Fatalf("expected only a to remain, got %d ids", l.Len())
	}

	unlockA()
	select {
	case unlock := <-acquired:
		if l.Len() != 1 {
			t.Fatalf("expected a to stay while held, got %d ids", l.Len())
		}
		unlock()
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired a")
	}

	if l.Len() != 0 {
		t.Fatalf("expected no ids after release, got %d", l.Len())
	}
}

func TestLocks_DifferentIDsDoNotBlock(t *testing.T) {
	l := NewLocks()
	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}
