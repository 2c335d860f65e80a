package contact

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var errNoDecoder = errors.New("attempt has no decoder")

// Kind classifica as falhas de uma tentativa.
type Kind int

const (
	// KindUnexpected: payload malformado ou falha interna. Não adianta repetir igual.
	KindUnexpected Kind = iota
	// KindRateLimited: o cliente pode tentar de novo após RetryAfter.
	KindRateLimited
	// KindValidation: o cliente precisa corrigir o campo.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindValidation:
		return "validation_failed"
	default:
		return "unexpected_failure"
	}
}

// Error carrega a mensagem pública (segura para o usuário) e a causa
// (só para log).
type Error struct {
	Kind       Kind
	Message    string
	Field      Field
	RetryAfter time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) PublicMessage() string { return e.Message }

func (e *Error) HttpStatusCode() int {
	switch e.Kind {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reporta se err (ou algo que ele embrulha) é um *Error do tipo kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
