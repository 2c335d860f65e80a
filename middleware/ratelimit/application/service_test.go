package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

type fakeStore struct {
	dec  domain.Decision
	err  error
	keys []domain.Key
	at   []time.Time
}

func (s *fakeStore) Take(_ context.Context, key domain.Key, now time.Time) (domain.Decision, error) {
	s.keys = append(s.keys, key)
	s.at = append(s.at, now)
	return s.dec, s.err
}

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide(context.Background(), "k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_UsesInjectedClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{dec: domain.Decision{Allowed: true}}
	svc := Service{Store: store, Now: func() time.Time { return at }}

	if dec := svc.Decide(context.Background(), "k"); !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if len(store.at) != 1 || !store.at[0].Equal(at) {
		t.Fatalf("expected store to see injected time, got %v", store.at)
	}
}

func TestService_CheckAndRecord_EmptyKeyUsesUnknownBucket(t *testing.T) {
	store := &fakeStore{dec: domain.Decision{Allowed: true}}
	svc := Service{Store: store}

	svc.CheckAndRecord(context.Background(), "", time.Now())
	if store.keys[0] != domain.UnknownKey {
		t.Fatalf("expected key %q, got %q", domain.UnknownKey, store.keys[0])
	}
}

func TestService_CheckAndRecord_BlocksWithRetryAfterDefault(t *testing.T) {
	svc := Service{Store: &fakeStore{dec: domain.Decision{Allowed: false}}}
	dec := svc.CheckAndRecord(context.Background(), "k", time.Now())
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 1*time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}

func TestService_CheckAndRecord_KeepsStoreRetryAfter(t *testing.T) {
	store := &fakeStore{dec: domain.Decision{Allowed: false, RetryAfter: 42 * time.Second}}
	svc := Service{Store: store, RetryAfter: 2 * time.Second}
	dec := svc.CheckAndRecord(context.Background(), "k", time.Now())
	if dec.RetryAfter != 42*time.Second {
		t.Fatalf("expected RetryAfter=42s, got %s", dec.RetryAfter)
	}
}

func TestService_CheckAndRecord_StoreErrorFailsOpenByDefault(t *testing.T) {
	svc := Service{Store: &fakeStore{err: errors.New("boom")}}
	if dec := svc.CheckAndRecord(context.Background(), "k", time.Now()); !dec.Allowed {
		t.Fatalf("expected fail-open")
	}
}

func TestService_CheckAndRecord_StoreErrorFailsClosed(t *testing.T) {
	svc := Service{Store: &fakeStore{err: errors.New("boom")}, FailClosed: true, RetryAfter: 3 * time.Second}
	dec := svc.CheckAndRecord(context.Background(), "k", time.Now())
	if dec.Allowed {
		t.Fatalf("expected fail-closed")
	}
	if dec.RetryAfter != 3*time.Second {
		t.Fatalf("expected RetryAfter=3s, got %s", dec.RetryAfter)
	}
}
