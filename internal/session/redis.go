package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	adminKeyPrefix   = "admin_session:"
	seenKeyPrefix    = "seen:"
)

// RedisStore is the multi-instance Store backend. Sessions are stored as
// JSON with no expiry; the dedupe seen-set expires via SETNX TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, senderID string) (*Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+senderID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.SenderID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *RedisStore) GetAdmin(ctx context.Context, senderID string) (*AdminSession, error) {
	raw, err := r.client.Get(ctx, adminKeyPrefix+senderID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read admin session: %w", err)
	}

	var s AdminSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode admin session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) PutAdmin(ctx context.Context, s *AdminSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode admin session: %w", err)
	}
	if err := r.client.Set(ctx, adminKeyPrefix+s.SenderID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write admin session: %w", err)
	}
	return nil
}

func (r *RedisStore) MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if messageID == "" {
		return true, nil
	}
	first, err := r.client.SetNX(ctx, seenKeyPrefix+messageID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message seen: %w", err)
	}
	return first, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
