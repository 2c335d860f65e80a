package domain

import (
	"context"
	"time"
)

// Outcome é o resultado observável de uma tentativa.
type Outcome string

const (
	// Decisões do middleware de rate limit.
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"

	// Estados terminais de uma submissão do formulário de contato.
	OutcomeAccepted    Outcome = "accepted"
	OutcomeRejected    Outcome = "rejected"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeFailed      Outcome = "failed"
)

// StatsEvent representa um evento de decisão.
//
// Method/Path são strings genéricas (não dependem de net/http).
//
// Observação: cuidado com cardinalidade ao guardar Key/Path.
type StatsEvent struct {
	Key     Key
	Outcome Outcome

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas.
//
// Quem chama trata erro como best-effort (não derruba a requisição).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
