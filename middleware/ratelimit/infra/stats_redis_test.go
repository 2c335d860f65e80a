package infra

import (
	"context"
	"testing"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

func TestRedisStatsStore_KeyLayout(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsPrefix("contact:stats:"))
	at := time.Date(2024, 5, 1, 10, 42, 7, 0, time.UTC)

	cases := map[string]string{
		s.TotalKey():                    "contact:stats:total",
		s.RouteKey("POST /api/contact"): "contact:stats:route:POST /api/contact",
		s.IdentityKey("1.2.3.4"):        "contact:stats:key:1.2.3.4",
		s.BucketKey(at):                 "contact:stats:minute:202405011042",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestRedisStatsStore_BucketKey(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 42, 7, 0, time.FixedZone("BRT", -3*3600))

	hour := NewRedisStatsStore(nil, WithStatsBucket(" HOUR "))
	if got := hour.BucketKey(at); got != "contact:stats:hour:2024050113" {
		t.Fatalf("unexpected hour bucket key: %q", got)
	}

	none := NewRedisStatsStore(nil, WithStatsBucket("none"))
	if got := none.BucketKey(at); got != "" {
		t.Fatalf("expected no bucket key, got %q", got)
	}
}

func TestRedisStatsStore_RecordWithoutClientIsNoop(t *testing.T) {
	s := NewRedisStatsStore(nil)
	ev := domain.StatsEvent{Key: "k", Outcome: domain.OutcomeAccepted}
	if err := s.Record(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
