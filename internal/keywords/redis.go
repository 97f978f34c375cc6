package keywords

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix  = "keywords:"
	defaultRedisTTL = 24 * time.Hour

	redisPingTimeout = 2 * time.Second
)

// RedisConfig carries connection settings for the shared keyword cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore shares generated keyword lists across runs through Redis. When
// the server is unreachable at startup or during operation the store degrades
// to cache misses instead of failing the run.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

func NewRedisStore(cfg RedisConfig, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, keyword cache disabled",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
		_ = client.Close()

		return &RedisStore{ttl: ttl, logger: logger}
	}

	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]string, bool) {
	if s.isUnavailable() {
		return nil, false
	}

	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.warnUnavailableOnce(err)
		}
		return nil, false
	}

	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		s.logger.Warn("discarding malformed keyword cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}

	return keywords, true
}

func (s *RedisStore) Set(ctx context.Context, key string, keywords []string) {
	if s.isUnavailable() {
		return
	}

	data, err := json.Marshal(keywords)
	if err != nil {
		return
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err(); err != nil {
		s.warnUnavailableOnce(err)
	}
}

func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}

	return s.client.Close()
}

func (s *RedisStore) isUnavailable() bool {
	return s == nil || s.client == nil
}

func (s *RedisStore) warnUnavailableOnce(err error) {
	if s.warnedUnavailable.CompareAndSwap(false, true) {
		s.logger.Warn("redis unavailable, bypassing keyword cache", zap.Error(err))
	}
}
