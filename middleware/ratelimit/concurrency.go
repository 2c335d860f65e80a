package ratelimit

import (
	"net/http"
	"time"

	"contact-gateway/httpjson"
	"contact-gateway/middleware/ratelimit/application"
	"contact-gateway/middleware/ratelimit/domain"
	"contact-gateway/middleware/ratelimit/infra"
)

type ConcurrencyOptions struct {
	// Pool tem precedência sobre Max (permite expor o pool no /healthz).
	Pool           domain.SlotPool
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
}

func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil {
		if opts.Max <= 0 {
			return func(next http.Handler) http.Handler { return next }
		}
		opts.Pool = infra.NewChanPool(opts.Max)
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				httpjson.WriteErrorJson(w, opts.RejectStatus, http.StatusText(opts.RejectStatus))
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
