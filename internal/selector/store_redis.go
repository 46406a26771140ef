package selector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pointsgate/internal/rulecheck"
)

const verdictKey = "pointsgate:rulecheck:verdict"

// RedisStore shares the rule-check verdict across processes. The Redis TTL
// mirrors the cache TTL so stale verdicts age out on their own; freshness
// is still judged against the verdict's CheckedAt.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed verdict store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the stored verdict, if any.
func (s *RedisStore) Get(ctx context.Context) (rulecheck.Result, bool, error) {
	data, err := s.client.Get(ctx, verdictKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return rulecheck.Result{}, false, nil
	}
	if err != nil {
		return rulecheck.Result{}, false, fmt.Errorf("get verdict: %w", err)
	}

	var res rulecheck.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return rulecheck.Result{}, false, fmt.Errorf("decode verdict: %w", err)
	}
	return res, true, nil
}

// Put replaces the stored verdict.
func (s *RedisStore) Put(ctx context.Context, res rulecheck.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	if err := s.client.Set(ctx, verdictKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store verdict: %w", err)
	}
	return nil
}

// Clear drops the stored verdict.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, verdictKey).Err(); err != nil {
		return fmt.Errorf("clear verdict: %w", err)
	}
	return nil
}
