package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/cryptochat/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id) VALUES ($1)`,
		id,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx,
		`SELECT 1 FROM chat_sessions WHERE id = $1`,
		id,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SessionRepo) AppendMessage(ctx context.Context, sessionID string, m models.ChatMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_messages (session_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4)`,
		sessionID, string(m.Role), m.Content, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Messages returns the session's messages in insertion order.
func (r *SessionRepo) Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role, content, created_at FROM chat_messages
		 WHERE session_id = $1 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *SessionRepo) CountMessages(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE session_id = $1`,
		sessionID,
	).Scan(&n)
	return n, err
}

// --- scan helpers ---

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectMessages(rows rowsIter) ([]models.ChatMessage, error) {
	out := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		var role string
		if err := rows.Scan(&role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		r, err := models.ParseRole(role)
		if err != nil {
			return nil, err
		}
		m.Role = r
		out = append(out, m)
	}
	return out, rows.Err()
}
