package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/resend/resend-go/v2"
	"golang.org/x/time/rate"
)

// EmailSender é o pedaço do cliente Resend que usamos (client.Emails).
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendConfig struct {
	APIKey   string
	From     string
	FromName string
	To       []string
	// TestMode registra o e-mail no log em vez de enviar.
	TestMode bool
	// RPS limita chamadas à API do Resend (o plano gratuito aceita 2/s).
	RPS float64
}

// ResendNotifier envia cada submissão aceita por e-mail.
type ResendNotifier struct {
	sender  EmailSender
	cfg     ResendConfig
	limiter *rate.Limiter
	ugc     *bluemonday.Policy
	strict  *bluemonday.Policy
	logger  *slog.Logger
}

func NewResendNotifier(cfg ResendConfig, logger *slog.Logger) (*ResendNotifier, error) {
	if len(cfg.To) == 0 {
		return nil, errors.New("resend: at least one recipient is required")
	}
	var sender EmailSender
	if !cfg.TestMode {
		if cfg.APIKey == "" {
			return nil, errors.New("resend: RESEND_API_KEY not configured")
		}
		sender = resend.NewClient(cfg.APIKey).Emails
	}
	return newResendNotifier(sender, cfg, logger), nil
}

func newResendNotifier(sender EmailSender, cfg ResendConfig, logger *slog.Logger) *ResendNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &ResendNotifier{
		sender:  sender,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		ugc:     bluemonday.UGCPolicy(),
		strict:  bluemonday.StrictPolicy(),
		logger:  logger,
	}
}

func (n *ResendNotifier) Notify(ctx context.Context, d Delivery) error {
	params := n.buildEmail(d)

	if n.cfg.TestMode || n.sender == nil {
		n.logger.InfoContext(ctx, "contact email (test mode, not sent)",
			"id", d.ID, "to", params.To, "subject", params.Subject, "text", params.Text)
		return nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("resend: waiting for send slot: %w", err)
	}
	sent, err := n.sender.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: send contact email: %w", err)
	}
	n.logger.InfoContext(ctx, "contact email sent", "id", d.ID, "resend_id", sent.Id)
	return nil
}

func (n *ResendNotifier) buildEmail(d Delivery) *resend.SendEmailRequest {
	sub := d.Submission
	from := n.cfg.From
	if n.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.From)
	}

	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(sub.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(sub.Subject))
	b.WriteString("<p><strong>Message:</strong></p>")
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>"))

	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nSubject: %s\n\n%s\n\nID: %s\nIP: %s\n",
		sub.Name, sub.Email, sub.Subject, sub.Message, d.ID, d.Identity)

	// Subject é texto puro: tira as tags e desfaz o escape do bluemonday.
	subject := html.UnescapeString(n.strict.Sanitize(sub.Subject))

	params := &resend.SendEmailRequest{
		From:    from,
		To:      n.cfg.To,
		Subject: "Contact Form: " + subject,
		Html:    n.ugc.Sanitize(b.String()),
		Text:    text,
	}
	if ValidEmail(sub.Email) {
		params.ReplyTo = sub.Email
	}
	return params
}
