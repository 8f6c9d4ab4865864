package session

import (
	"context"

	"github.com/kjannette/cryptochat/internal/chat"
	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/repository"
)

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	repo *repository.SessionRepo
}

func NewPostgresStore(repo *repository.SessionRepo) *PostgresStore {
	return &PostgresStore{repo: repo}
}

func (s *PostgresStore) Create(ctx context.Context) (string, error) {
	id := newID()
	if err := s.repo.Create(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) Open(ctx context.Context, id string) (chat.History, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return &pgHistory{repo: s.repo, id: id}, nil
}

type pgHistory struct {
	repo *repository.SessionRepo
	id   string
}

func (h *pgHistory) Append(ctx context.Context, msg models.ChatMessage) error {
	return h.repo.AppendMessage(ctx, h.id, msg)
}

func (h *pgHistory) Messages(ctx context.Context) ([]models.ChatMessage, error) {
	return h.repo.Messages(ctx, h.id)
}
