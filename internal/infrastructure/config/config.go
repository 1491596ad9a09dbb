package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// JWTConfig is read once at startup and frozen into the token codec's
// SigningConfig; nothing reads these values after bootstrap.
type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	Issuer   string        `env:"JWT_ISSUER,   default=identity-api"`
	Audience string        `env:"JWT_AUDIENCE, default=identity-clients"`
	TTL      time.Duration `env:"JWT_TTL,      default=120m"`

	// AllowExpiredRefresh lets /auth/me accept an expired token whose
	// signature, issuer and audience still verify. Off by default.
	AllowExpiredRefresh bool `env:"JWT_ALLOW_EXPIRED_REFRESH, default=false"`
}

type AuthConfig struct {
	PasswordMinLength  int           `env:"AUTH_PASSWORD_MIN_LENGTH,   default=8"`
	LoginMaxAttempts   int           `env:"AUTH_LOGIN_MAX_ATTEMPTS,    default=5"`
	LoginAttemptWindow time.Duration `env:"AUTH_LOGIN_ATTEMPT_WINDOW,  default=15m"`
	AuditWorkers       int           `env:"AUTH_AUDIT_WORKERS,         default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
