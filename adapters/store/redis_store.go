package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/layer-3/xosclaim/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps credential records in a Redis list, one record per element
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client, key string, logger *zap.Logger) ports.CredentialStore {
	return &RedisStore{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Append pushes a record to the tail of the list
func (s *RedisStore) Append(ctx context.Context, address, privateKey string) error {
	if err := s.client.RPush(ctx, s.key, formatRecord(address, privateKey)).Err(); err != nil {
		return fmt.Errorf("failed to append account record: %w", err)
	}
	return nil
}

// LoadAllKeys reads the whole list in insertion order
func (s *RedisStore) LoadAllKeys(ctx context.Context) []string {
	records, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		s.logger.Warn("failed to read account records", zap.String("key", s.key), zap.Error(err))
		return []string{}
	}

	return parseKeys(strings.NewReader(strings.Join(records, "")))
}
