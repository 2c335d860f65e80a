package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type config struct {
	ListenAddr  string `validate:"required"`
	Environment string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogJSON     bool
	CORSOrigins []string

	ContactWindow       time.Duration `validate:"gt=0"`
	ContactMaxAttempts  int           `validate:"gt=0"`
	ContactStore        string        `validate:"oneof=memory redis"`
	ContactMaxKeys      int           `validate:"gt=0"`
	ContactCleanupEvery time.Duration `validate:"gt=0"`
	ContactFailClosed   bool
	ContactReport       string `validate:"oneof=first all"`

	RateKeyHeader string
	TrustXFF      bool
	UseRemoteAddr bool

	RateEnabled        bool
	RateRPS            float64 `validate:"gt=0"`
	RateBurst          int     `validate:"gt=0"`
	RetryAfter         time.Duration
	AddHeaders         bool
	ConcurrencyMax     int `validate:"gte=0"`
	ConcurrencyTimeout time.Duration

	RedisAddr     string `validate:"required_if=ContactStore redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	StatsEnabled   bool
	StatsBackend   string `validate:"oneof=memory redis"`
	StatsPrefix    string
	StatsTTL       time.Duration
	StatsBucket    string `validate:"oneof=minute hour none"`
	StatsTrackKeys bool

	ResendAPIKey  string
	EmailFrom     string `validate:"omitempty,email"`
	EmailFromName string
	EmailTo       []string `validate:"dive,email"`
	EmailTestMode bool
	EmailRPS      float64 `validate:"gte=0"`
}

// emailEnabled diz se as submissões aceitas vão por e-mail (Resend).
func (c config) emailEnabled() bool {
	return c.ResendAPIKey != "" || c.EmailTestMode
}

func (c config) slogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func readConfig() (config, error) {
	// .env é opcional (só em desenvolvimento)
	_ = godotenv.Load()

	cfg := config{}
	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.Environment = getenvDefault("ENVIRONMENT", "development")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogJSON = getenvBoolDefault("LOG_JSON", cfg.Environment == "production")
	cfg.CORSOrigins = getenvList("CORS_ALLOWED_ORIGINS")

	cfg.ContactWindow = getenvDurationDefault("CONTACT_WINDOW", 60*time.Second)
	cfg.ContactMaxAttempts = getenvIntDefault("CONTACT_MAX_ATTEMPTS", 3)
	cfg.ContactStore = strings.ToLower(getenvDefault("CONTACT_STORE", "memory"))
	cfg.ContactMaxKeys = getenvIntDefault("CONTACT_MAX_KEYS", 10000)
	cfg.ContactCleanupEvery = getenvDurationDefault("CONTACT_CLEANUP_EVERY", time.Minute)
	cfg.ContactFailClosed = getenvBoolDefault("CONTACT_FAIL_CLOSED", false)
	cfg.ContactReport = strings.ToLower(getenvDefault("CONTACT_REPORT", "first"))

	cfg.RateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	// o formulário roda atrás de proxy: o primeiro IP do X-Forwarded-For é o cliente
	cfg.TrustXFF = getenvBoolDefault("TRUST_XFF", true)
	cfg.UseRemoteAddr = getenvBoolDefault("USE_REMOTE_ADDR", false)

	cfg.RateEnabled = getenvBoolDefault("RATE_ENABLED", false)
	cfg.RateRPS = getenvFloatDefault("RATE_RPS", 10)
	// Com RPS abaixo de 1 o burst padrão deixaria passar uma rajada grande
	// antes do limite aparecer.
	if burst, ok := getenvInt("RATE_BURST"); ok {
		cfg.RateBurst = burst
	} else {
		cfg.RateBurst = 20
		if getenvIsSet("RATE_RPS") && cfg.RateRPS > 0 && cfg.RateRPS < 1 {
			cfg.RateBurst = 1
		}
	}
	cfg.RetryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.AddHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	cfg.ConcurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.ConcurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvIntDefault("REDIS_DB", 0)

	cfg.StatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", true)
	cfg.StatsBackend = strings.ToLower(getenvDefault("RATE_STATS_BACKEND", "memory"))
	cfg.StatsPrefix = getenvDefault("RATE_STATS_PREFIX", "contact:stats")
	cfg.StatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.StatsBucket = strings.ToLower(getenvDefault("RATE_STATS_BUCKET", "minute"))
	cfg.StatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.EmailFrom = getenvDefault("EMAIL_FROM", "onboarding@resend.dev")
	cfg.EmailFromName = getenvDefault("EMAIL_FROM_NAME", "Contact Form")
	cfg.EmailTo = getenvList("EMAIL_TO")
	cfg.EmailTestMode = getenvBoolDefault("EMAIL_TEST_MODE", false)
	cfg.EmailRPS = getenvFloatDefault("EMAIL_RPS", 2)

	if err := validator.New().Struct(cfg); err != nil {
		return config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.StatsEnabled && cfg.StatsBackend == "redis" && strings.TrimSpace(cfg.RedisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required when RATE_STATS_BACKEND=redis")
	}
	if cfg.emailEnabled() && len(cfg.EmailTo) == 0 {
		return config{}, errors.New("EMAIL_TO is required when RESEND_API_KEY or EMAIL_TEST_MODE is set")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvList lê uma lista separada por vírgulas, ignorando itens vazios.
func getenvList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
