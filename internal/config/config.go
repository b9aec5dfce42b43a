package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-membership-api/internal/auth"
)

type Config struct {
	Environment string
	LogFormat   string
	LogLevel    string

	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	ShutdownTimeout         time.Duration
	BehindProxy             bool

	DatabaseURL       string
	DBMaxConns        int32
	DBMinConns        int32
	DBConnectTimeout  time.Duration
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	AutoMigrate       bool

	JWTSecret      string
	JWTAccessTTL   time.Duration
	PasswordScheme string

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int

	UploadRoot       string
	MaxUploadSize    int64
	AllowedMIMETypes []string
}

var defaultMIMETypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
	"application/pdf",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),

		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:         getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		BehindProxy:             getBool("BEHIND_PROXY", false),

		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:        int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:        int32(getInt("DB_MIN_CONNS", 1)),
		DBConnectTimeout:  getDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DBMaxConnIdleTime: getDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DBMaxConnLifetime: getDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		AutoMigrate:       getBool("AUTO_MIGRATE", true),

		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAccessTTL:   getDuration("JWT_ACCESS_TTL", 24*time.Hour),
		PasswordScheme: strings.ToLower(getEnv("PASSWORD_SCHEME", auth.SchemeDigest)),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),

		UploadRoot:       getEnv("UPLOAD_ROOT", "./uploads"),
		MaxUploadSize:    getInt64("MAX_UPLOAD_SIZE", 10<<20),
		AllowedMIMETypes: splitCSV(strings.TrimSpace(os.Getenv("ALLOWED_MIME_TYPES"))),
	}

	if len(cfg.AllowedMIMETypes) == 0 {
		cfg.AllowedMIMETypes = append([]string(nil), defaultMIMETypes...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only what the migrate commands need.
func LoadDatabase() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL"))}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}

	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}

	if strings.TrimSpace(c.UploadRoot) == "" {
		return fmt.Errorf("UPLOAD_ROOT cannot be empty")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	if c.RateLimitRPM <= 0 || c.AuthRateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM and AUTH_RATE_LIMIT_RPM must be positive")
	}

	if _, err := auth.NewPasswordHasher(c.PasswordScheme); err != nil {
		return fmt.Errorf("PASSWORD_SCHEME: %w", err)
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
