// Package config loads the teeBay API configuration from the environment.
// Values are bound with cleanenv, then checked as a whole so that a
// misconfigured deployment reports every problem at once instead of the first.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	minPoolSize = 5
	maxPoolSize = 100
)

// PoolConfig describes the single PostgreSQL connection pool.
type PoolConfig struct {
	// URL, when set, takes precedence over the individual fields.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	TokenIssuer string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	CORSOrigins    []string
	MigrateOnStart bool
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

// env mirrors the raw environment. Everything is read as the type cleanenv
// can bind; range and cross-field checks happen in LoadConfig.
type env struct {
	DatabaseURL    string        `env:"DATABASE_URL"`
	DBHost         string        `env:"DB_HOST" env-default:"localhost"`
	DBPort         int           `env:"DB_PORT" env-default:"5432"`
	DBUser         string        `env:"DB_USER"`
	DBPassword     string        `env:"DB_PASSWORD"`
	DBName         string        `env:"DB_NAME"`
	DBPoolSize     int           `env:"DB_POOL_SIZE" env-default:"10"`
	JWTSecret      string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL         time.Duration `env:"JWT_TTL" env-default:"1h"`
	JWTIssuer      string        `env:"JWT_ISSUER" env-default:"teebay"`
	Port           string        `env:"PORT" env-default:"4000"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" env-default:"*" env-separator:","`
	MigrateOnStart bool          `env:"MIGRATE_ON_START" env-default:"false"`
}

// LoadConfig reads the environment and returns a validated AppConfig. All
// problems found are reported together in one error.
func LoadConfig() (*AppConfig, error) {
	var raw env
	if err := cleanenv.ReadEnv(&raw); err != nil {
		return nil, fmt.Errorf("configuration errors:\n- %w", err)
	}
	return build(raw)
}

func build(raw env) (*AppConfig, error) {
	var errs []string

	pool := &PoolConfig{
		URL:      strings.TrimSpace(raw.DatabaseURL),
		Host:     raw.DBHost,
		Port:     raw.DBPort,
		User:     raw.DBUser,
		Password: raw.DBPassword,
		DBName:   raw.DBName,
		MaxSize:  clampPoolSize(raw.DBPoolSize, &errs),
	}
	if pool.URL != "" {
		if _, err := url.Parse(pool.URL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		}
	} else {
		required := []struct{ key, val string }{
			{"DB_USER", pool.User},
			{"DB_PASSWORD", pool.Password},
			{"DB_NAME", pool.DBName},
		}
		for _, r := range required {
			if r.val == "" {
				errs = append(errs, fmt.Sprintf("missing required environment variable: %s (or set DATABASE_URL)", r.key))
			}
		}
		if pool.Port <= 0 || pool.Port > 65535 {
			errs = append(errs, fmt.Sprintf("invalid value for DB_PORT: %d", pool.Port))
		}
	}

	if strings.TrimSpace(raw.JWTSecret) == "" {
		errs = append(errs, "missing required environment variable: JWT_SECRET")
	}
	if raw.JWTTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid value for JWT_TTL: must be positive, got %s", raw.JWTTTL))
	}
	if _, err := strconv.Atoi(raw.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid value for PORT: expected integer, got '%s'", raw.Port))
	}

	origins := make([]string, 0, len(raw.CORSOrigins))
	for _, o := range raw.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB: pool,
		Auth: &AuthConfig{
			JWTSecret:   raw.JWTSecret,
			TokenTTL:    raw.JWTTTL,
			TokenIssuer: raw.JWTIssuer,
		},
		Server: &ServerConfig{
			Port:           raw.Port,
			CORSOrigins:    origins,
			MigrateOnStart: raw.MigrateOnStart,
		},
	}, nil
}

// clampPoolSize keeps the pool between minPoolSize and maxPoolSize.
// Out-of-range values are clamped, not rejected.
func clampPoolSize(size int, errs *[]string) int {
	switch {
	case size == 0:
		return minPoolSize
	case size < 0:
		*errs = append(*errs, fmt.Sprintf("invalid value for DB_POOL_SIZE: %d", size))
		return minPoolSize
	case size < minPoolSize:
		return minPoolSize
	case size > maxPoolSize:
		return maxPoolSize
	}
	return size
}

// DSN returns a postgres:// connection string for the pool, suitable for both
// pgx and golang-migrate.
func (c *PoolConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
