// Package session keeps conversation histories for callers that serve more
// than one conversation, such as the HTTP API.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/kjannette/cryptochat/internal/chat"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Create starts an empty session and returns its id.
	Create(ctx context.Context) (string, error)
	// Open returns the history of an existing session or ErrNotFound.
	Open(ctx context.Context, id string) (chat.History, error)
}

func newID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by Create.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*chat.Session)}
}

func (m *MemoryStore) Create(_ context.Context) (string, error) {
	id := newID()
	m.mu.Lock()
	m.sessions[id] = chat.NewSession()
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryStore) Open(_ context.Context, id string) (chat.History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Locks hands out one mutex per session id so turns of the same session run
// one at a time while different sessions proceed in parallel. An id's entry
// is dropped once no turn holds or waits for it.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int // holders plus waiters, guarded by Locks.mu
}

func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sessionLock)}
}

// Lock blocks until id is free and returns the matching unlock func.
func (l *Locks) Lock(id string) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &sessionLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// Len reports how many session ids currently have a turn running or queued.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
