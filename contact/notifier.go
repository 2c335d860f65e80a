package contact

import (
	"context"
	"log/slog"
	"time"
)

// Delivery é o que segue adiante depois de ACCEPTED: a submissão já aparada.
type Delivery struct {
	ID         string
	Identity   string
	Lang       string
	Submission Submission
	ReceivedAt time.Time
}

// Notifier entrega uma submissão aceita (log, e-mail, fila...).
type Notifier interface {
	Notify(ctx context.Context, d Delivery) error
}

// NotifierFunc adapta uma função comum para Notifier.
type NotifierFunc func(ctx context.Context, d Delivery) error

func (f NotifierFunc) Notify(ctx context.Context, d Delivery) error { return f(ctx, d) }

// LogNotifier só registra a submissão no log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, d Delivery) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "contact form submission",
		"id", d.ID,
		"name", d.Submission.Name,
		"email", d.Submission.Email,
		"subject", d.Submission.Subject,
		"message", d.Submission.Message,
		"timestamp", d.ReceivedAt.Format(time.RFC3339Nano),
		"ip", d.Identity,
	)
	return nil
}
