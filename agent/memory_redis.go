package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uslanozan/asset-smith/models"
)

// RedisMemoryStore her oturumu "<prefix>:<session_id>" anahtarlı bir listede tutar.
type RedisMemoryStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	limit  int
}

func NewRedisMemoryStore(client *redis.Client, prefix string, ttl time.Duration, limit int) *RedisMemoryStore {
	return &RedisMemoryStore{client: client, prefix: prefix, ttl: ttl, limit: limit}
}

func (s *RedisMemoryStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *RedisMemoryStore) Load(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	start := int64(0)
	if s.limit > 0 {
		start = int64(-s.limit)
	}
	items, err := s.client.LRange(ctx, s.key(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	msgs := make([]models.ChatMessage, 0, len(items))
	for _, item := range items {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("session %s: bozuk mesaj: %w", sessionID, err)
		}
		msgs = append(msgs, msg)
	}
	return trimOrphans(msgs), nil
}

func (s *RedisMemoryStore) Append(ctx context.Context, sessionID string, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
		values = append(values, data)
	}

	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisMemoryStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}
