package ratelimit

import (
	"net"
	"net/http"
	"strings"

	"contact-gateway/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// KeyOptions controla de onde vem a identidade do cliente, em ordem:
// Header, primeiro IP do X-Forwarded-For, RemoteAddr. Se nada se aplicar,
// a identidade é domain.UnknownKey e o cliente cai no balde compartilhado.
type KeyOptions struct {
	Header             string
	TrustXForwardedFor bool
	UseRemoteAddr      bool
}

func DefaultKeyFunc(opts KeyOptions) KeyFunc {
	return func(r *http.Request) string {
		if opts.Header != "" {
			if v := strings.TrimSpace(r.Header.Get(opts.Header)); v != "" {
				return v
			}
		}

		if opts.TrustXForwardedFor {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		if opts.UseRemoteAddr {
			host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
			if err == nil && host != "" {
				return host
			}
			if r.RemoteAddr != "" {
				return r.RemoteAddr
			}
		}
		return string(domain.UnknownKey)
	}
}
