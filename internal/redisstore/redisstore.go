// Package redisstore keeps the scope of each conversation and its turn block in Redis instead of the SQLite database.
//
// The live encounters stay in the memory of the bot process, so a deployment runs a single bot instance.
package redisstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "spbot:"
	// scopeTTL drops the focus of conversations that were abandoned mid-encounter.
	scopeTTL = 24 * time.Hour
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr string, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct // defaults are fine.
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis", slog.String("addr", addr))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to redis", slog.String("addr", addr))
	return client, nil
}

func scopeKey(conversationID string) string {
	return keyPrefix + "scope:" + conversationID
}

func blockKey(conversationID string) string {
	return keyPrefix + "blocked:" + conversationID
}

// ScopeStore persists scope paths as JSON arrays.
type ScopeStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewScopeStore(client *redis.Client, logger *slog.Logger) *ScopeStore {
	return &ScopeStore{
		client: client,
		logger: logger.With("source", "ScopeStore"),
	}
}

func (s *ScopeStore) GetScope(ctx context.Context, conversationID string) ([]string, error) {
	data, err := s.client.Get(ctx, scopeKey(conversationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get scope", slog.String("conversation_id", conversationID))
	}
	var path []string
	if err = json.Unmarshal(data, &path); err != nil {
		return nil, errors.Wrap(err, "unmarshal scope", slog.String("conversation_id", conversationID))
	}
	if len(path) == 0 {
		return nil, nil
	}
	return path, nil
}

func (s *ScopeStore) SetScope(ctx context.Context, conversationID string, path []string) error {
	data, err := json.Marshal(path)
	if err != nil {
		return errors.Wrap(err, "marshal scope")
	}
	if err = s.client.Set(ctx, scopeKey(conversationID), data, scopeTTL).Err(); err != nil {
		return errors.Wrap(err, "set scope", slog.String("conversation_id", conversationID))
	}
	return nil
}

func (s *ScopeStore) ClearScope(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, scopeKey(conversationID)).Err(); err != nil {
		return errors.Wrap(err, "delete scope", slog.String("conversation_id", conversationID))
	}
	return nil
}

// Blocker serializes the turns of a conversation with an expiring SETNX lock.
type Blocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBlocker creates a Blocker. A block expires after ttl so that a crashed turn cannot lock a conversation forever.
func NewBlocker(client *redis.Client, ttl time.Duration) *Blocker {
	return &Blocker{client: client, ttl: ttl}
}

// TryBlock reports whether the block was acquired.
func (b *Blocker) TryBlock(ctx context.Context, conversationID string) (bool, error) {
	acquired, err := b.client.SetNX(ctx, blockKey(conversationID), time.Now().UTC().Format(time.RFC3339), b.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "set block", slog.String("conversation_id", conversationID))
	}
	return acquired, nil
}

func (b *Blocker) Unblock(ctx context.Context, conversationID string) error {
	if err := b.client.Del(ctx, blockKey(conversationID)).Err(); err != nil {
		return errors.Wrap(err, "delete block", slog.String("conversation_id", conversationID))
	}
	return nil
}
