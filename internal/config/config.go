package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	devJWTSecret        = "dev-secret-change-in-production"
	devEncryptionSecret = "dev-encryption-secret-change-in-production"
)

var (
	ErrDevJWTSecret        = errors.New("JWT_SECRET must be set in production environment")
	ErrDevEncryptionSecret = errors.New("ENCRYPTION_SECRET must be set in production environment")
	ErrUnknownStoreDriver  = errors.New("STORE_DRIVER must be mysql or memory")
)

// Config holds every externally supplied setting of the API server.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver string
	DatabaseDSN string

	JWTSecret        string
	JWTExpiry        time.Duration
	EncryptionSecret string
	BcryptCost       int

	CORSOrigin   string
	ShareBaseURL string
	ShareTTL     time.Duration

	SignupRateMax    int
	SignupRateWindow time.Duration
	VaultRateMax     int
	VaultRateWindow  time.Duration
	APIRPS           float64
	APIBurst         int

	DailyNoteLimit int
	GoogleClientID string
}

func Load() Config {
	return Config{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: getEnv("STORE_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/notevault?parseTime=true"),

		JWTSecret:        getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:        getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		EncryptionSecret: getEnv("ENCRYPTION_SECRET", devEncryptionSecret),
		BcryptCost:       getEnvInt("BCRYPT_COST", 10),

		CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:5173"),
		ShareBaseURL: getEnv("SHARE_BASE_URL", "http://localhost:5173/note/viewNote/"),
		ShareTTL:     getEnvDuration("SHARE_TTL", 72*time.Hour),

		SignupRateMax:    getEnvInt("SIGNUP_RATE_MAX", 5),
		SignupRateWindow: getEnvDuration("SIGNUP_RATE_WINDOW", 15*time.Minute),
		VaultRateMax:     getEnvInt("VAULT_RATE_MAX", 15),
		VaultRateWindow:  getEnvDuration("VAULT_RATE_WINDOW", 15*time.Minute),
		APIRPS:           getEnvFloat("API_RPS", 20),
		APIBurst:         getEnvInt("API_BURST", 40),

		DailyNoteLimit: getEnvInt("DAILY_NOTE_LIMIT", 100),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
	}
}

// IsProduction reports whether the server runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that are unsafe or unusable.
func (c Config) Validate() error {
	if c.StoreDriver != "mysql" && c.StoreDriver != "memory" {
		return ErrUnknownStoreDriver
	}
	if !c.IsProduction() {
		return nil
	}
	if c.JWTSecret == devJWTSecret {
		return ErrDevJWTSecret
	}
	if c.EncryptionSecret == devEncryptionSecret {
		return ErrDevEncryptionSecret
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
