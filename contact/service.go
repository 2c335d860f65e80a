package contact

import (
	"context"
	"log/slog"
	"time"

	"contact-gateway/contact/messages"
	"contact-gateway/middleware/ratelimit/domain"

	"github.com/google/uuid"
)

// State é o estado terminal de uma tentativa.
type State string

const (
	StateRateLimited State = "rate_limited"
	StateRejected    State = "rejected"
	StateAccepted    State = "accepted"
)

// Reporting decide quantos erros de validação o Result carrega.
type Reporting int

const (
	// ReportFirst mantém só o primeiro campo inválido (name, email, subject, message).
	ReportFirst Reporting = iota
	// ReportAll mantém todos os campos inválidos.
	ReportAll
)

// Gate é o portão de admissão; application.Service satisfaz esta interface.
type Gate interface {
	Decide(ctx context.Context, key domain.Key) domain.Decision
}

// Attempt é uma tentativa de submissão.
//
// Decode só é chamado depois que o portão admite a tentativa, então um
// payload malformado também consome cota.
type Attempt struct {
	Identity string
	Lang     string
	Decode   func() (Submission, error)
}

// Result é o desfecho de uma tentativa que chegou a um estado terminal.
type Result struct {
	State      State
	Errors     FieldErrors
	Message    string
	RetryAfter time.Duration
	Decision   domain.Decision
	ID         string
}

// Err converte estados de recusa em *Error; ACCEPTED devolve nil.
func (r Result) Err() error {
	switch r.State {
	case StateRateLimited:
		return &Error{Kind: KindRateLimited, Message: r.Message, RetryAfter: r.RetryAfter}
	case StateRejected:
		f, msg, _ := r.Errors.First()
		return &Error{Kind: KindValidation, Message: msg, Field: f}
	}
	return nil
}

// Service orquestra portão, validação e entrega.
type Service struct {
	Gate      Gate
	Notifier  Notifier
	Stats     domain.StatsStore
	Messages  *messages.Catalog
	Reporting Reporting
	// StatsRoute rotula os eventos de stats (ex: "POST /api/contact").
	StatsRoute string
	Now        func() time.Time
	NewID      func() string
	Logger     *slog.Logger
}

// Submit leva a tentativa até um estado terminal. O erro devolvido é sempre
// uma falha inesperada (*Error com KindUnexpected); recusas vêm no Result.
func (s *Service) Submit(ctx context.Context, a Attempt) (Result, error) {
	cat := s.catalog()
	lang := a.Lang
	if lang == "" {
		lang = messages.DefaultLang
	}
	key := domain.Key(a.Identity)
	if key == "" {
		key = domain.UnknownKey
	}

	var dec domain.Decision
	if s.Gate != nil {
		dec = s.Gate.Decide(ctx, key)
		if !dec.Allowed {
			s.record(ctx, key, domain.OutcomeRateLimited)
			s.logger().InfoContext(ctx, "contact submission rate limited",
				"identity", string(key), "retry_after", dec.RetryAfter)
			return Result{
				State:      StateRateLimited,
				Message:    cat.T(lang, messages.KeyRateLimited),
				RetryAfter: dec.RetryAfter,
				Decision:   dec,
			}, nil
		}
	}

	if a.Decode == nil {
		s.record(ctx, key, domain.OutcomeFailed)
		return Result{}, s.unexpected(lang, errNoDecoder)
	}
	sub, err := a.Decode()
	if err != nil {
		s.record(ctx, key, domain.OutcomeFailed)
		return Result{}, s.unexpected(lang, err)
	}

	var fields []Field
	if s.Reporting == ReportAll {
		fields = Violations(sub)
	} else if f, bad := FirstViolation(sub); bad {
		fields = []Field{f}
	}
	if len(fields) > 0 {
		errs := Localize(fields, cat, lang)
		_, msg, _ := errs.First()
		s.record(ctx, key, domain.OutcomeRejected)
		return Result{State: StateRejected, Errors: errs, Message: msg, Decision: dec}, nil
	}

	d := Delivery{
		ID:         s.newID(),
		Identity:   string(key),
		Lang:       lang,
		Submission: sub.Trimmed(),
		ReceivedAt: s.now().UTC(),
	}
	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, d); err != nil {
			s.record(ctx, key, domain.OutcomeFailed)
			return Result{}, s.unexpected(lang, err)
		}
	}

	s.record(ctx, key, domain.OutcomeAccepted)
	return Result{
		State:    StateAccepted,
		Message:  cat.T(lang, messages.KeySuccess),
		Decision: dec,
		ID:       d.ID,
	}, nil
}

// Check valida sem passar pelo portão (validação interativa do formulário).
func (s *Service) Check(sub Submission, lang string) FieldErrors {
	if lang == "" {
		lang = messages.DefaultLang
	}
	return Localize(Violations(sub), s.catalog(), lang)
}

func (s *Service) unexpected(lang string, cause error) error {
	return &Error{
		Kind:    KindUnexpected,
		Message: s.catalog().T(lang, messages.KeyInternal),
		Cause:   cause,
	}
}

func (s *Service) record(ctx context.Context, key domain.Key, o domain.Outcome) {
	if s.Stats == nil {
		return
	}
	err := s.Stats.Record(ctx, domain.StatsEvent{
		Key:     key,
		Outcome: o,
		Path:    s.StatsRoute,
		At:      s.now(),
	})
	if err != nil {
		s.logger().WarnContext(ctx, "stats record failed", "error", err)
	}
}

func (s *Service) catalog() *messages.Catalog {
	if s.Messages != nil {
		return s.Messages
	}
	return messages.Default()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
