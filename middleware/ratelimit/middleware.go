package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"contact-gateway/httpjson"
	"contact-gateway/middleware/ratelimit/application"
	"contact-gateway/middleware/ratelimit/domain"
)

const DefaultRejectMessage = "Too many requests. Please try again later."

type Options struct {
	Store               domain.LimiterStore
	Stats               domain.StatsStore
	KeyFn               KeyFunc
	Key                 KeyOptions
	RejectStatus        int
	RejectMessage       string
	RetryAfter          time.Duration
	FailClosed          bool
	AddRateLimitHeaders bool
	Logger              *slog.Logger
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// Middleware aplica o Store a todas as requisições que passam por ele.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RejectMessage == "" {
		opts.RejectMessage = DefaultRejectMessage
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.Key)
	}

	svc := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
		FailClosed: opts.FailClosed,
		Logger:     opts.Logger,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec := svc.Decide(r.Context(), domain.Key(key))

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
				SetDecisionHeaders(w, dec)
			}

			outcome := domain.OutcomeAllowed
			if !dec.Allowed {
				outcome = domain.OutcomeDenied
			}
			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Outcome: outcome,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !dec.Allowed {
				SetRetryAfter(w, dec.RetryAfter)
				httpjson.WriteErrorJson(w, opts.RejectStatus, opts.RejectMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetDecisionHeaders escreve X-RateLimit-Limit/Remaining/Reset quando conhecidos.
func SetDecisionHeaders(w http.ResponseWriter, dec domain.Decision) {
	if dec.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", formatInt(dec.Limit))
		w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
	}
	if !dec.ResetAt.IsZero() {
		w.Header().Set("X-RateLimit-Reset", formatInt(int(dec.ResetAt.Unix())))
	}
}

func SetRetryAfter(w http.ResponseWriter, d time.Duration) {
	w.Header().Set("Retry-After", formatRetryAfter(d))
}
