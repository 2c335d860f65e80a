// Package server monta o roteador HTTP do gateway de contato.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"contact-gateway/contact"
	"contact-gateway/contact/messages"
	"contact-gateway/middleware/ratelimit"
	"contact-gateway/middleware/ratelimit/infra"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
)

const defaultMaxBodyBytes = 64 << 10

// StatsSource expõe o snapshot dos contadores em memória.
type StatsSource interface {
	Snapshot() infra.StatsSnapshot
}

// HealthCheck é uma dependência verificada pelo /healthz (ex: ping no Redis).
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger  *httplog.Logger
	Contact *contact.Service
	Catalog *messages.Catalog

	// Identidade do cliente. KeyFn tem precedência sobre Key.
	KeyFn ratelimit.KeyFunc
	Key   ratelimit.KeyOptions

	AddRateLimitHeaders bool
	MaxBodyBytes        int64
	CORSOrigins         []string

	// Limites globais opcionais, aplicados às rotas /api.
	RouterLimit *ratelimit.Options
	Concurrency *ratelimit.ConcurrencyOptions
	Pool        *infra.ChanPool

	Stats  StatsSource
	Checks map[string]HealthCheck
}

type HttpServer struct {
	router *chi.Mux

	contact *contact.Service
	catalog *messages.Catalog
	keyFn   ratelimit.KeyFunc
	headers bool
	maxBody int64
	pool    *infra.ChanPool
	stats   StatsSource
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHttpServer(cfg Config) *HttpServer {
	logger := cfg.Logger
	if logger == nil {
		logger = httplog.NewLogger("contact-gateway", httplog.Options{
			LogLevel:         slog.LevelInfo,
			Concise:          true,
			MessageFieldName: "message",
		})
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = messages.Default()
	}
	svc := cfg.Contact
	if svc == nil {
		svc = &contact.Service{Logger: logger.Logger}
	}
	keyFn := cfg.KeyFn
	if keyFn == nil {
		keyFn = ratelimit.DefaultKeyFunc(cfg.Key)
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(httplog.RequestLogger(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		ExposedHeaders: []string{
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		MaxAge: 300,
	}))

	server := &HttpServer{
		router:  router,
		contact: svc,
		catalog: catalog,
		keyFn:   keyFn,
		headers: cfg.AddRateLimitHeaders,
		maxBody: maxBody,
		pool:    cfg.Pool,
		stats:   cfg.Stats,
		checks:  cfg.Checks,
		timeout: 2 * time.Second,
	}

	server.routes(cfg)

	return server
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

func (httpserver *HttpServer) routes(cfg Config) {
	httpserver.router.Get("/healthz", httpserver.healthz)

	httpserver.router.Route("/api", func(r chi.Router) {
		if cfg.Concurrency != nil {
			r.Use(ratelimit.ConcurrencyMiddleware(*cfg.Concurrency))
		}
		if cfg.RouterLimit != nil {
			r.Use(ratelimit.Middleware(*cfg.RouterLimit))
		}

		r.Post("/contact", httpserver.submitContact)
		r.Post("/contact/validate", httpserver.validateContact)
		r.Get("/contact/stats", httpserver.contactStats)
	})
}
