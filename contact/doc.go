// Package contact implementa o fluxo de submissão do formulário de contato:
// portão de admissão (rate limit por identidade), validação dos campos e
// entrega opcional (log ou e-mail).
//
// Estados de uma tentativa:
//
//	START -> RATE_LIMITED                  (portão negou)
//	START -> VALIDATING -> REJECTED        (FieldErrors não vazio)
//	START -> VALIDATING -> ACCEPTED        (entregue ao Notifier)
//
// Nada é persistido e nada é re-tentado internamente.
package contact
