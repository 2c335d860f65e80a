package infra

import (
	"context"
	"maps"
	"strings"
	"sync"

	"contact-gateway/middleware/ratelimit/domain"
)

// Counters conta eventos por resultado (allowed, denied, accepted, ...).
type Counters map[domain.Outcome]int64

func (c Counters) clone() Counters {
	out := make(Counters, len(c))
	maps.Copy(out, c)
	return out
}

// StatsSnapshot é uma cópia consistente dos contadores.
type StatsSnapshot struct {
	Total   Counters            `json:"total"`
	ByRoute map[string]Counters `json:"by_route"`
	ByKey   map[string]Counters `json:"by_key,omitempty"`
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes, desenvolvimento e para o endpoint de stats.
//
// Não faz expiração; com trackKeys a cardinalidade cresce com as identidades.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
	byKey   map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:   make(Counters),
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := strings.TrimSpace(ev.Method + " " + ev.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Outcome]++
	bump(s.byRoute, route, ev.Outcome)
	if s.trackKeys {
		bump(s.byKey, string(ev.Key), ev.Outcome)
	}
	return nil
}

func bump(m map[string]Counters, k string, o domain.Outcome) {
	c, ok := m[k]
	if !ok {
		c = make(Counters)
		m[k] = c
	}
	c[o]++
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total.clone()
}

func (s *MemoryStatsStore) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Total:   s.total.clone(),
		ByRoute: make(map[string]Counters, len(s.byRoute)),
	}
	for k, v := range s.byRoute {
		snap.ByRoute[k] = v.clone()
	}
	if s.trackKeys {
		snap.ByKey = make(map[string]Counters, len(s.byKey))
		for k, v := range s.byKey {
			snap.ByKey[k] = v.clone()
		}
	}
	return snap
}
