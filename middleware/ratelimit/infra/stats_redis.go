package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// bucketLayouts mapeia o nome do bucket para o formato do sufixo da série.
var bucketLayouts = map[string]string{
	"minute": "200601021504",
	"hour":   "2006010215",
}

// RedisStatsStore conta desfechos (domain.Outcome) em hashes cujo campo é
// o próprio outcome, no mesmo formato do StatsSnapshot em memória:
//
//	<prefix>:total                     cumulativo
//	<prefix>:route:<METHOD path>       cumulativo, um hash por rota
//	<prefix>:<bucket>:<timestamp>      série temporal, expira com ttl
//	<prefix>:key:<identidade>          só com trackKeys, expira com ttl
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix    string
	ttl       time.Duration
	bucket    string
	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

// WithStatsBucket escolhe a série temporal: "minute" (padrão), "hour" ou "none".
func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "contact:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) TotalKey() string { return s.prefix + ":total" }

func (s *RedisStatsStore) RouteKey(route string) string { return s.prefix + ":route:" + route }

func (s *RedisStatsStore) IdentityKey(key domain.Key) string {
	return s.prefix + ":key:" + string(key)
}

// BucketKey devolve a chave da série temporal que contém at, ou "" sem bucket.
func (s *RedisStatsStore) BucketKey(at time.Time) string {
	layout, ok := bucketLayouts[s.bucket]
	if !ok {
		return ""
	}
	return s.prefix + ":" + s.bucket + ":" + at.UTC().Format(layout)
}

// Record incrementa o outcome do evento em todos os hashes aplicáveis, num
// único pipeline. Eventos sem outcome são ignorados.
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil || ev.Outcome == "" {
		return nil
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	outcome := string(ev.Outcome)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.TotalKey(), outcome, 1)

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.RouteKey(route), outcome, 1)
	}
	if k := s.BucketKey(at); k != "" {
		s.incrExpiring(ctx, pipe, k, outcome)
	}
	if s.trackKeys && strings.TrimSpace(string(ev.Key)) != "" {
		s.incrExpiring(ctx, pipe, s.IdentityKey(ev.Key), outcome)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) incrExpiring(ctx context.Context, pipe redis.Pipeliner, key, outcome string) {
	pipe.HIncrBy(ctx, key, outcome, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}

// Counts lê um dos hashes de contadores (ex: TotalKey, RouteKey).
func (s *RedisStatsStore) Counts(ctx context.Context, key string) (Counters, error) {
	raw, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make(Counters, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats %s: field %s: %w", key, field, err)
		}
		out[domain.Outcome(field)] = n
	}
	return out, nil
}
