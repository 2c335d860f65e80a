package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"contact-gateway/contact"
	"contact-gateway/contact/messages"
	"contact-gateway/middleware/ratelimit"
	"contact-gateway/middleware/ratelimit/application"
	"contact-gateway/middleware/ratelimit/domain"
	"contact-gateway/middleware/ratelimit/infra"
	"contact-gateway/server"

	"github.com/go-chi/httplog/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := httplog.NewLogger("contact-gateway", httplog.Options{
		JSON:             cfg.LogJSON,
		LogLevel:         cfg.slogLevel(),
		Concise:          true,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": cfg.Environment,
		},
	})
	slog.SetDefault(logger.Logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
	}

	var windowStore domain.LimiterStore
	switch cfg.ContactStore {
	case "redis":
		windowStore = infra.NewRedisWindowStore(rdb, cfg.ContactWindow, cfg.ContactMaxAttempts)
	default:
		mem := infra.NewMemoryWindowStore(cfg.ContactWindow, cfg.ContactMaxAttempts,
			infra.WithMaxKeys(cfg.ContactMaxKeys),
			infra.WithWindowCleanupEvery(cfg.ContactCleanupEvery),
		)
		mem.StartJanitor(ctx)
		windowStore = mem
	}

	var (
		statsStore  domain.StatsStore
		statsSource server.StatsSource
	)
	if cfg.StatsEnabled {
		switch cfg.StatsBackend {
		case "redis":
			statsStore = infra.NewRedisStatsStore(
				rdb,
				infra.WithStatsPrefix(cfg.StatsPrefix),
				infra.WithStatsTTL(cfg.StatsTTL),
				infra.WithStatsBucket(cfg.StatsBucket),
				infra.WithStatsTrackKeys(cfg.StatsTrackKeys),
			)
		default:
			mem := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.StatsTrackKeys))
			statsStore, statsSource = mem, mem
		}
	}

	notifier, err := newNotifier(cfg, logger.Logger)
	if err != nil {
		log.Fatalf("notifier error: %v", err)
	}

	reporting := contact.ReportFirst
	if cfg.ContactReport == "all" {
		reporting = contact.ReportAll
	}

	catalog := messages.Default()
	contactSvc := &contact.Service{
		Gate: application.Service{
			Store:      windowStore,
			RetryAfter: cfg.RetryAfter,
			FailClosed: cfg.ContactFailClosed,
			Logger:     logger.Logger,
		},
		Notifier:   notifier,
		Stats:      statsStore,
		Messages:   catalog,
		Reporting:  reporting,
		StatsRoute: "POST /api/contact",
		Logger:     logger.Logger,
	}

	keyOpts := ratelimit.KeyOptions{
		Header:             cfg.RateKeyHeader,
		TrustXForwardedFor: cfg.TrustXFF,
		UseRemoteAddr:      cfg.UseRemoteAddr,
	}

	srvCfg := server.Config{
		Logger:              logger,
		Contact:             contactSvc,
		Catalog:             catalog,
		Key:                 keyOpts,
		AddRateLimitHeaders: cfg.AddHeaders,
		CORSOrigins:         cfg.CORSOrigins,
		Stats:               statsSource,
	}
	if cfg.ConcurrencyMax > 0 {
		pool := infra.NewChanPool(cfg.ConcurrencyMax)
		srvCfg.Pool = pool
		srvCfg.Concurrency = &ratelimit.ConcurrencyOptions{
			Pool:           pool,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.ConcurrencyTimeout,
		}
	}
	if cfg.RateEnabled {
		bucket := infra.NewTokenBucketStore(cfg.RateRPS, cfg.RateBurst)
		bucket.StartJanitor(ctx)
		srvCfg.RouterLimit = &ratelimit.Options{
			Store:               bucket,
			Stats:               statsStore,
			Key:                 keyOpts,
			RejectStatus:        http.StatusTooManyRequests,
			RetryAfter:          cfg.RetryAfter,
			AddRateLimitHeaders: cfg.AddHeaders,
			Logger:              logger.Logger,
		}
	}
	if rdb != nil {
		srvCfg.Checks = map[string]server.HealthCheck{
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewHttpServer(srvCfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("contact gateway listening", "addr", cfg.ListenAddr, "env", cfg.Environment)
	logger.Info("contact gate", "store", cfg.ContactStore, "window", cfg.ContactWindow,
		"max_attempts", cfg.ContactMaxAttempts, "fail_closed", cfg.ContactFailClosed, "report", cfg.ContactReport)
	logger.Info("identity", "key_header", cfg.RateKeyHeader, "trust_xff", cfg.TrustXFF, "remote_addr", cfg.UseRemoteAddr)
	logger.Info("router limit", "enabled", cfg.RateEnabled, "rps", cfg.RateRPS, "burst", cfg.RateBurst,
		"concurrency_max", cfg.ConcurrencyMax, "concurrency_timeout", cfg.ConcurrencyTimeout)
	logger.Info("stats", "enabled", cfg.StatsEnabled, "backend", cfg.StatsBackend, "bucket", cfg.StatsBucket)
	logger.Info("email", "enabled", cfg.emailEnabled(), "test_mode", cfg.EmailTestMode, "to", cfg.EmailTo)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// newNotifier escolhe o destino das submissões aceitas: Resend quando
// configurado, senão apenas o log.
func newNotifier(cfg config, logger *slog.Logger) (contact.Notifier, error) {
	if !cfg.emailEnabled() {
		return contact.LogNotifier{Logger: logger}, nil
	}
	return contact.NewResendNotifier(contact.ResendConfig{
		APIKey:   cfg.ResendAPIKey,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		To:       cfg.EmailTo,
		TestMode: cfg.EmailTestMode,
		RPS:      cfg.EmailRPS,
	}, logger)
}
