package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings for both binaries. Each main only reads its own part.
type Config struct {
	Web     WebConfig
	API     APIConfig
	Logging LoggingConfig
}

// WebConfig configures the storefront.
type WebConfig struct {
	Addr            string
	APIBaseURL      string
	SessionDSN      string // empty keeps sessions in memory
	SessionLifetime time.Duration
	RequestTimeout  time.Duration
}

// APIConfig configures the reference backend.
type APIConfig struct {
	Addr        string
	DSN         string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load reads .env files (missing files are ignored) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	lifetime, err := time.ParseDuration(get("SESSION_LIFETIME", "12h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_LIFETIME: %w", err)
	}

	timeout, err := time.ParseDuration(get("API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("API_TIMEOUT: %w", err)
	}

	minutes, err := strconv.Atoi(get("ACCESS_TOKEN_EXPIRE_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
	}

	var origins []string
	for _, o := range strings.Split(get("CORS_ORIGINS", "http://localhost:4000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Web: WebConfig{
			Addr:            get("WEB_ADDR", ":4000"),
			APIBaseURL:      strings.TrimRight(get("API_BASE_URL", "http://localhost:8000"), "/"),
			SessionDSN:      get("SESSION_DSN", ""),
			SessionLifetime: lifetime,
			RequestTimeout:  timeout,
		},
		API: APIConfig{
			Addr:        get("API_ADDR", ":8000"),
			DSN:         get("DATABASE_DSN", "sweets_user:sweets@tcp(localhost:3306)/sweet_shop?parseTime=true"),
			JWTSecret:   get("SECRET_KEY", ""),
			TokenTTL:    time.Duration(minutes) * time.Minute,
			CORSOrigins: origins,
		},
		Logging: LoggingConfig{
			Level:  get("LOG_LEVEL", "info"),
			Format: get("LOG_FORMAT", "console"),
		},
	}, nil
}
