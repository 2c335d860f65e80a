package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// windowScript aplica a janela fixa de forma atômica.
// KEYS[1] = hash {count, reset_at}
// ARGV[1] = now (ms), ARGV[2] = janela (ms), ARGV[3] = máximo de tentativas
// Retorna {allowed(0|1), count, reset_at(ms)}.
var windowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local state = redis.call('HMGET', KEYS[1], 'count', 'reset_at')
local count = tonumber(state[1])
local resetAt = tonumber(state[2])
if count == nil or resetAt == nil or resetAt <= now then
  resetAt = now + window
  redis.call('HSET', KEYS[1], 'count', 1, 'reset_at', resetAt)
  redis.call('PEXPIRE', KEYS[1], window)
  return {1, 1, resetAt}
end
if count < max then
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
  return {1, count, resetAt}
end
return {0, count, resetAt}
`)

// RedisWindowStore é a versão distribuída do MemoryWindowStore.
// O TTL de cada chave (PEXPIRE = janela) limita a memória no Redis.
type RedisWindowStore struct {
	rdb    redis.Scripter
	policy domain.WindowPolicy
	prefix string
}

type RedisWindowOption func(*RedisWindowStore)

func WithWindowPrefix(prefix string) RedisWindowOption {
	return func(s *RedisWindowStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisWindowStore(rdb redis.Scripter, window time.Duration, maxAttempts int, opts ...RedisWindowOption) *RedisWindowStore {
	s := &RedisWindowStore{
		rdb:    rdb,
		policy: domain.WindowPolicy{Window: window, MaxAttempts: maxAttempts},
		prefix: "ratelimit:window",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisWindowStore) Policy() domain.WindowPolicy { return s.policy }

// Take implementa domain.LimiterStore.
func (s *RedisWindowStore) Take(ctx context.Context, key domain.Key, now time.Time) (domain.Decision, error) {
	res, err := windowScript.Run(ctx, s.rdb,
		[]string{s.prefix + ":" + string(key)},
		now.UnixMilli(), s.policy.Window.Milliseconds(), s.policy.MaxAttempts,
	).Int64Slice()
	if err != nil {
		return domain.Decision{}, fmt.Errorf("redis window script: %w", err)
	}
	if len(res) != 3 {
		return domain.Decision{}, fmt.Errorf("redis window script: unexpected reply %v", res)
	}

	w := domain.RateWindow{Count: int(res[1]), ResetAt: time.UnixMilli(res[2])}
	return s.policy.DecisionFor(w, res[0] == 1, now), nil
}
