package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kjannette/cryptochat/internal/chat"
	"github.com/kjannette/cryptochat/internal/models"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps each session as a list of JSON-encoded messages under
// chat:session:<id>:messages, plus a chat:session:<id> marker key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("chat:session:%s", id)
}

func messagesKey(id string) string {
	return fmt.Sprintf("chat:session:%s:messages", id)
}

// Ping checks the connection to the Redis server.
func (s *RedisStore) Ping(ctx context.Context) string {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Sprintf("down: %v", err)
	}
	return "up"
}

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := newID()
	ok, err := s.client.SetNX(ctx, sessionKey(id), time.Now().UTC().Format(time.RFC3339), 0).Result()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("create session: id %s already taken", id)
	}
	return id, nil
}

func (s *RedisStore) Open(ctx context.Context, id string) (chat.History, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return &redisHistory{client: s.client, key: messagesKey(id)}, nil
}

type redisHistory struct {
	client *redis.Client
	key    string
}

func (h *redisHistory) Append(ctx context.Context, msg models.ChatMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return h.client.RPush(ctx, h.key, b).Err()
}

func (h *redisHistory) Messages(ctx context.Context) ([]models.ChatMessage, error) {
	raw, err := h.client.LRange(ctx, h.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	out := make([]models.ChatMessage, 0, len(raw))
	for _, r := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}
