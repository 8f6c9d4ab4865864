package chat

import (
	"context"
	"sync"

	"github.com/kjannette/cryptochat/internal/models"
)

// History is an append-only, ordered message log for one conversation.
type History interface {
	Append(ctx context.Context, msg models.ChatMessage) error
	Messages(ctx context.Context) ([]models.ChatMessage, error)
}

// Session is an in-memory History owned by its caller.
type Session struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Append(_ context.Context, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a copy in append order.
func (s *Session) Messages(_ context.Context) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
