package domain

import "context"

// SlotPool limita quantas requisições podem estar em andamento ao mesmo tempo.
//
// Acquire bloqueia até haver vaga ou até o ctx encerrar. A função de release
// devolvida deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
