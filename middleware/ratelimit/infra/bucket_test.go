package infra

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketStore_LowBurstRejectsSecondImmediateTake(t *testing.T) {
	s := NewTokenBucketStore(0.02, 1)
	now := time.Now()

	dec, err := s.Take(context.Background(), "k", now)
	if err != nil || !dec.Allowed {
		t.Fatalf("expected first Take to be allowed, got %+v err=%v", dec, err)
	}
	dec, _ = s.Take(context.Background(), "k", now)
	if dec.Allowed {
		t.Fatalf("expected second immediate Take to be denied (burst=1)")
	}
	if dec.RetryAfter <= 0 {
		t.Fatalf("expected RetryAfter > 0, got %s", dec.RetryAfter)
	}
}

func TestTokenBucketStore_DeniedTakeDoesNotConsumeFutureToken(t *testing.T) {
	s := NewTokenBucketStore(1, 1)
	now := time.Now()

	_, _ = s.Take(context.Background(), "k", now)
	for i := 0; i < 5; i++ {
		_, _ = s.Take(context.Background(), "k", now)
	}

	dec, _ := s.Take(context.Background(), "k", now.Add(time.Second))
	if !dec.Allowed {
		t.Fatalf("expected token to be available one second later")
	}
}

func TestTokenBucketStore_CleanupRemovesIdleEntries(t *testing.T) {
	s := NewTokenBucketStore(0.02, 1, WithIdleTTL(time.Minute), WithCleanupEvery(0))
	now := time.Now()

	_, _ = s.Take(context.Background(), "k", now)
	s.Cleanup(now.Add(2 * time.Minute))

	// limiter recriado => bucket cheio de novo
	dec, _ := s.Take(context.Background(), "k", now.Add(2*time.Minute))
	if !dec.Allowed {
		t.Fatalf("expected limiter to be recreated after cleanup")
	}
}
