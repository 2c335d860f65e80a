package infra

import (
	"context"
	"sync"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

// TokenBucketStore é um domain.LimiterStore baseado em token-bucket (x/time/rate)
// com cache por chave e limpeza de chaves inativas.
//
// Serve como proteção de rajada no roteador inteiro; a cota do formulário de
// contato usa a janela fixa (MemoryWindowStore / RedisWindowStore).
type TokenBucketStore struct {
	mu           sync.Mutex
	entries      map[string]*bucketEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type BucketOption func(*TokenBucketStore)

func WithIdleTTL(d time.Duration) BucketOption {
	return func(s *TokenBucketStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) BucketOption {
	return func(s *TokenBucketStore) { s.cleanupEvery = d }
}

func NewTokenBucketStore(rps float64, burst int, opts ...BucketOption) *TokenBucketStore {
	s := &TokenBucketStore{
		entries:      make(map[string]*bucketEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenBucketStore) RPS() float64 { return float64(s.rps) }
func (s *TokenBucketStore) Burst() int   { return s.burst }

// Take implementa domain.LimiterStore. Quando nega, a reserva é cancelada
// para não consumir o token futuro.
func (s *TokenBucketStore) Take(_ context.Context, key domain.Key, now time.Time) (domain.Decision, error) {
	lim := s.limiter(string(key), now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return domain.Decision{Allowed: false, Limit: s.burst}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return domain.Decision{Allowed: false, Limit: s.burst, RetryAfter: delay}, nil
	}

	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return domain.Decision{Allowed: true, Limit: s.burst, Remaining: remaining}, nil
}

func (s *TokenBucketStore) limiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &bucketEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup remove chaves sem uso há mais de idleTTL.
func (s *TokenBucketStore) Cleanup(now time.Time) {
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *TokenBucketStore) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, s.cleanupEvery, s.Cleanup)
}
