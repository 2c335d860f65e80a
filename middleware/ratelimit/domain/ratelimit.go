package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

// Key identifica o "dono" de uma cota (ex: IP de origem, API key).
type Key string

// UnknownKey é a identidade usada quando a origem não pode ser determinada.
// Todos os clientes sem identidade distinguível dividem o mesmo balde.
const UnknownKey Key = "unknown"

// RateWindow é o estado mutável de uma janela fixa por identidade.
//
// Invariante: Count só é incrementado enquanto now < ResetAt. Ao cruzar
// ResetAt, a janela recomeça com Count = 1 e ResetAt = now + duração.
type RateWindow struct {
	Count   int
	ResetAt time.Time
}

// Expired informa se a janela já terminou no instante now.
func (w RateWindow) Expired(now time.Time) bool {
	return !now.Before(w.ResetAt)
}

// WindowPolicy descreve a cota: no máximo MaxAttempts tentativas por Window.
type WindowPolicy struct {
	Window      time.Duration
	MaxAttempts int
}

// Apply aplica uma tentativa sobre a janela atual (ok=false significa
// "nenhuma janela ainda") e devolve o novo estado e a decisão.
// Uma tentativa negada não altera a janela.
func (p WindowPolicy) Apply(cur RateWindow, ok bool, now time.Time) (RateWindow, Decision) {
	if !ok || cur.Expired(now) {
		next := RateWindow{Count: 1, ResetAt: now.Add(p.Window)}
		return next, p.DecisionFor(next, true, now)
	}
	if cur.Count < p.MaxAttempts {
		cur.Count++
		return cur, p.DecisionFor(cur, true, now)
	}
	return cur, p.DecisionFor(cur, false, now)
}

// DecisionFor monta a Decision correspondente a uma janela já aplicada.
func (p WindowPolicy) DecisionFor(w RateWindow, allowed bool, now time.Time) Decision {
	remaining := p.MaxAttempts - w.Count
	if remaining < 0 {
		remaining = 0
	}
	dec := Decision{
		Allowed:   allowed,
		Limit:     p.MaxAttempts,
		Remaining: remaining,
		ResetAt:   w.ResetAt,
	}
	if !allowed {
		dec.RetryAfter = w.ResetAt.Sub(now)
	}
	return dec
}

// LimiterStore registra uma tentativa para a chave e devolve a decisão.
//
// A operação é "check-and-record": consultar já consome cota quando permitido.
// Implementações precisam serializar o acesso por chave (mutex, script atômico).
type LimiterStore interface {
	Take(ctx context.Context, key Key, now time.Time) (Decision, error)
}

type Decision struct {
	Allowed bool

	// Limit/Remaining/ResetAt alimentam os headers X-RateLimit-*.
	// Zero significa "desconhecido" (ex: token bucket não tem reset fixo).
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
