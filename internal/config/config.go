package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console gateway.
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Session SessionConfig
	Cache   CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	LoginPath             string
}

// BackendConfig describes the upstream business API.
type BackendConfig struct {
	BaseURL               string
	TimeoutSeconds        int
	RefreshTimeoutSeconds int
	// ServiceToken authenticates background jobs that run without a
	// browser session, such as the exchange-rate refresher. Optional.
	ServiceToken string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig defines session cookie and token storage parameters.
type SessionConfig struct {
	CookieName     string
	TTLHours       int
	CookieSecure   bool
	ProfileTimeout int
}

// CacheConfig defines staleness windows for the resource stores.
type CacheConfig struct {
	SalesStaleSeconds    int
	AdminStaleSeconds    int
	PaymentsStaleSeconds int
	ExchangeRateTTLHours int
	RateRefreshMinutes   int
	ProjectsStaleSeconds int
	FinanceStaleSeconds  int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := os.Getenv("BACKEND_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "admin-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			LoginPath:             getEnv("APP_LOGIN_PATH", "/login"),
		},
		Backend: BackendConfig{
			BaseURL:               baseURL,
			TimeoutSeconds:        getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 15),
			RefreshTimeoutSeconds: getEnvAsInt("BACKEND_REFRESH_TIMEOUT_SECONDS", 10),
			ServiceToken:          os.Getenv("BACKEND_SERVICE_TOKEN"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			CookieName:     getEnv("SESSION_COOKIE_NAME", "admin_sid"),
			TTLHours:       getEnvAsInt("SESSION_TTL_HOURS", 720),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", true),
			ProfileTimeout: getEnvAsInt("SESSION_PROFILE_TIMEOUT_SECONDS", 10),
		},
		Cache: CacheConfig{
			SalesStaleSeconds:    getEnvAsInt("CACHE_SALES_STALE_SECONDS", 60),
			AdminStaleSeconds:    getEnvAsInt("CACHE_ADMIN_STALE_SECONDS", 60),
			PaymentsStaleSeconds: getEnvAsInt("CACHE_PAYMENTS_STALE_SECONDS", 300),
			ExchangeRateTTLHours: getEnvAsInt("CACHE_EXCHANGE_RATE_TTL_HOURS", 1),
			RateRefreshMinutes:   getEnvAsInt("RATE_REFRESH_MINUTES", 30),
			ProjectsStaleSeconds: getEnvAsInt("CACHE_PROJECTS_STALE_SECONDS", 120),
			FinanceStaleSeconds:  getEnvAsInt("CACHE_FINANCE_STALE_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the upstream call deadline.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// RefreshTimeout returns the deadline for the token refresh call.
func (b BackendConfig) RefreshTimeout() time.Duration {
	if b.RefreshTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.RefreshTimeoutSeconds) * time.Second
}

// TTL returns the durable session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 720 * time.Hour
	}
	return time.Duration(s.TTLHours) * time.Hour
}

// ProfileFetchTimeout bounds GET /auth/me.
func (s SessionConfig) ProfileFetchTimeout() time.Duration {
	if s.ProfileTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ProfileTimeout) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
