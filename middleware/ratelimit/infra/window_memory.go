package infra

import (
	"container/list"
	"context"
	"sync"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

// MemoryWindowStore guarda uma domain.RateWindow por chave.
//
// Um único mutex serializa Take, então duas tentativas simultâneas da mesma
// chave nunca leem o mesmo Count. A memória é limitada de duas formas:
// janelas vencidas são removidas pelo janitor e, com maxKeys > 0, a chave
// usada há mais tempo é descartada quando o limite estoura.
type MemoryWindowStore struct {
	mu     sync.Mutex
	policy domain.WindowPolicy
	items  map[string]*list.Element
	lru    *list.List

	maxKeys      int
	cleanupEvery time.Duration
}

type windowEntry struct {
	key    string
	window domain.RateWindow
}

type WindowOption func(*MemoryWindowStore)

// WithMaxKeys limita quantas identidades ficam em memória (0 = sem limite).
func WithMaxKeys(n int) WindowOption {
	return func(s *MemoryWindowStore) { s.maxKeys = n }
}

func WithWindowCleanupEvery(d time.Duration) WindowOption {
	return func(s *MemoryWindowStore) { s.cleanupEvery = d }
}

func NewMemoryWindowStore(window time.Duration, maxAttempts int, opts ...WindowOption) *MemoryWindowStore {
	s := &MemoryWindowStore{
		policy:       domain.WindowPolicy{Window: window, MaxAttempts: maxAttempts},
		items:        make(map[string]*list.Element),
		lru:          list.New(),
		maxKeys:      10000,
		cleanupEvery: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryWindowStore) Policy() domain.WindowPolicy { return s.policy }

// Take implementa domain.LimiterStore.
func (s *MemoryWindowStore) Take(_ context.Context, key domain.Key, now time.Time) (domain.Decision, error) {
	k := string(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[k]; ok {
		ent := el.Value.(*windowEntry)
		var dec domain.Decision
		ent.window, dec = s.policy.Apply(ent.window, true, now)
		s.lru.MoveToFront(el)
		return dec, nil
	}

	w, dec := s.policy.Apply(domain.RateWindow{}, false, now)
	s.items[k] = s.lru.PushFront(&windowEntry{key: k, window: w})
	s.evictOverflow()
	return dec, nil
}

// Window devolve o estado atual da chave (para inspeção e testes).
func (s *MemoryWindowStore) Window(key domain.Key) (domain.RateWindow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[string(key)]
	if !ok {
		return domain.RateWindow{}, false
	}
	return el.Value.(*windowEntry).window, true
}

func (s *MemoryWindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Cleanup remove janelas com ResetAt <= now. Remover uma janela vencida é
// equivalente a resetá-la, então nenhuma decisão muda.
func (s *MemoryWindowStore) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, el := range s.items {
		if el.Value.(*windowEntry).window.Expired(now) {
			s.lru.Remove(el)
			delete(s.items, k)
			removed++
		}
	}
	return removed
}

// StartJanitor inicia uma goroutine que limpa janelas vencidas periodicamente.
// Pare cancelando o contexto.
func (s *MemoryWindowStore) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, s.cleanupEvery, func(now time.Time) { s.Cleanup(now) })
}

func (s *MemoryWindowStore) evictOverflow() {
	if s.maxKeys <= 0 {
		return
	}
	for len(s.items) > s.maxKeys {
		el := s.lru.Back()
		if el == nil {
			return
		}
		s.lru.Remove(el)
		delete(s.items, el.Value.(*windowEntry).key)
	}
}
