package infra

import (
	"context"
	"os"
	"testing"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Requer um Redis real: REDIS_ADDR=localhost:6379 go test ./...
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return rdb
}

func TestRedisWindowStore_MatchesMemorySemantics(t *testing.T) {
	rdb := newTestRedis(t)
	prefix := "test:" + uuid.NewString()
	s := NewRedisWindowStore(rdb, time.Minute, 3, WithWindowPrefix(prefix))
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		dec, err := s.Take(ctx, "1.2.3.4", now.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dec.Allowed {
			t.Fatalf("attempt %d: expected allowed", i+1)
		}
	}
	dec, err := s.Take(ctx, "1.2.3.4", now.Add(5*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Allowed {
		t.Fatalf("expected 4th attempt denied")
	}
	if dec.Remaining != 0 || dec.Limit != 3 {
		t.Fatalf("unexpected decision: %+v", dec)
	}

	dec, _ = s.Take(ctx, "1.2.3.4", now.Add(time.Minute))
	if !dec.Allowed {
		t.Fatalf("expected attempt after window allowed")
	}
}

func TestRedisStatsStore_Record(t *testing.T) {
	rdb := newTestRedis(t)
	prefix := "test:" + uuid.NewString()
	s := NewRedisStatsStore(rdb, WithStatsPrefix(prefix), WithStatsTTL(time.Minute), WithStatsTrackKeys(true))
	ctx := context.Background()
	t.Cleanup(func() {
		keys, _ := rdb.Keys(context.Background(), prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(context.Background(), keys...).Err()
		}
	})

	at := time.Now()
	events := []domain.StatsEvent{
		{Key: "k", Outcome: domain.OutcomeAccepted, Path: "POST /api/contact", At: at},
		{Key: "k", Outcome: domain.OutcomeRejected, Path: "POST /api/contact", At: at},
		{Key: "k", Outcome: domain.OutcomeAccepted, Method: "POST", Path: "/api/contact", At: at},
	}
	for _, ev := range events {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, key := range []string{s.TotalKey(), s.RouteKey("POST /api/contact"), s.BucketKey(at), s.IdentityKey("k")} {
		got, err := s.Counts(ctx, key)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", key, err)
		}
		if got[domain.OutcomeAccepted] != 2 || got[domain.OutcomeRejected] != 1 {
			t.Fatalf("%s: unexpected counters: %v", key, got)
		}
	}

	ttl, err := rdb.TTL(ctx, s.IdentityKey("k")).Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("expected identity key to expire, ttl=%s err=%v", ttl, err)
	}
	if ttl, _ := rdb.TTL(ctx, s.TotalKey()).Result(); ttl != -1 {
		t.Fatalf("expected total key without ttl, got %s", ttl)
	}
}
