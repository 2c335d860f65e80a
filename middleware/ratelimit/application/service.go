package application

import (
	"context"
	"log/slog"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

// Service é o portão de admissão: decide se uma nova tentativa é aceita.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store domain.LimiterStore
	// RetryAfter é usado quando o store nega sem sugerir espera.
	RetryAfter time.Duration
	// FailClosed nega a tentativa quando o store falha (ex: Redis fora).
	// O padrão (false) prioriza disponibilidade.
	FailClosed bool
	Now        func() time.Time
	Logger     *slog.Logger
}

// Decide registra uma tentativa para key no instante atual.
func (s Service) Decide(ctx context.Context, key domain.Key) domain.Decision {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return s.CheckAndRecord(ctx, key, now())
}

// CheckAndRecord registra uma tentativa para key em now.
// Chave vazia cai no balde compartilhado domain.UnknownKey.
func (s Service) CheckAndRecord(ctx context.Context, key domain.Key, now time.Time) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}
	if key == "" {
		key = domain.UnknownKey
	}

	dec, err := s.Store.Take(ctx, key, now)
	if err != nil {
		s.logger().WarnContext(ctx, "limiter store error",
			"key", string(key), "fail_closed", s.FailClosed, "error", err)
		if s.FailClosed {
			return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
		}
		return domain.Decision{Allowed: true}
	}
	if !dec.Allowed && dec.RetryAfter <= 0 {
		dec.RetryAfter = s.RetryAfter
	}
	return dec
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
