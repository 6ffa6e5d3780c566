package middleware

import (
	"context"
	"encoding/json"
	"medbook/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore shares replay state across service replicas. Redis
// handles expiry via key TTL, so Stop is a no-op.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func (s *RedisIdempotencyStore) redisKey(key string) string {
	return "idempotency:" + key
}

func (s *RedisIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := s.rdb.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Failed to read idempotency key from Redis", "key", key, "error", err)
		}
		return nil, false
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		s.log.Warn("Corrupt idempotency entry, discarding", "key", key, "error", err)
		return nil, false
	}

	return &cached, true
}

func (s *RedisIdempotencyStore) Set(key string, response *CachedResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	response.CreatedAt = time.Now()
	data, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("Failed to encode idempotency entry", "key", key, "error", err)
		return
	}

	if err := s.rdb.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		s.log.Warn("Failed to store idempotency entry in Redis", "key", key, "error", err)
	}
}

func (s *RedisIdempotencyStore) Stop() {}
