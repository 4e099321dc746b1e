package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

// RedisStore persists the roster snapshot as a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore constructs a Redis-backed roster store.
func NewRedisStore(client *redis.Client, key string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, key: key, logger: logger}
}

// Load returns the stored records. Missing keys, read errors and unparsable
// payloads all degrade to the seed set.
func (s *RedisStore) Load(ctx context.Context) []models.Student {
	if s.client == nil {
		return SeedStudents()
	}
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("roster load failed, falling back to seed data", zap.Error(err))
		}
		return SeedStudents()
	}
	students, ok := decodeSnapshot(raw, s.logger)
	if !ok {
		return SeedStudents()
	}
	return students
}

// Save overwrites the snapshot without expiry.
func (s *RedisStore) Save(ctx context.Context, students []models.Student) bool {
	if s.client == nil {
		return false
	}
	payload, err := json.Marshal(students)
	if err != nil {
		s.logger.Warn("roster save failed", zap.Error(err))
		return false
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		s.logger.Warn("roster save failed", zap.Error(err))
		return false
	}
	return true
}

// Clear removes the snapshot key.
func (s *RedisStore) Clear(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.logger.Warn("roster clear failed", zap.Error(err))
		return false
	}
	return true
}
