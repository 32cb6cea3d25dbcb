package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// PlaceholderJWTSecret is used when JWT_SECRET_KEY is unset. It keeps local
// development working and is rejected by Validate in production.
const PlaceholderJWTSecret = "default-secret-key"

var knownWeakSecrets = []string{
	PlaceholderJWTSecret, "your-secret-key", "change-me", "secret", "password",
}

var supportedAlgorithms = []string{"HS256", "HS384", "HS512"}

type Config struct {
	Port                    int    `env:"PORT" envDefault:"8080"`
	Environment             string `env:"APP_ENV" envDefault:"development"`
	DatabaseURL             string `env:"DATABASE_URL,required"`
	RedisURL                string `env:"REDIS_URL,required"`
	LogLevel                string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecretKey            string `env:"JWT_SECRET_KEY" envDefault:"default-secret-key"`
	JWTAlgorithm            string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	JWTIssuer               string `env:"JWT_ISSUER" envDefault:""`
	JWTExpireSeconds        int    `env:"JWT_EXPIRE_TIME" envDefault:"3600"`
	DefaultGroupPrefix      string `env:"DEFAULT_GROUP_PREFIX" envDefault:""`
	LoginCaptcha            string `env:"LOGIN_CAPTCHA" envDefault:"aa123456"`
	LoginLogRetentionDays   int    `env:"LOGIN_LOG_RETENTION_DAYS" envDefault:"90"`
	GroupSetCacheTTLSeconds int    `env:"GROUP_SET_CACHE_TTL_SECONDS" envDefault:"300"`
	AgentRateLimitPerMin    int    `env:"AGENT_RATE_LIMIT_PER_MIN" envDefault:"120"`
	IPRateLimitPerMin       int    `env:"IP_RATE_LIMIT_PER_MIN" envDefault:"300"`
	MigrateOnStart          bool   `env:"MIGRATE_ON_START" envDefault:"false"`
	MetricsEnabled          bool   `env:"METRICS_ENABLED" envDefault:"true"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// SessionLifetime is both the nominal token lifetime and the renewal threshold.
func (c *Config) SessionLifetime() time.Duration {
	return time.Duration(c.JWTExpireSeconds) * time.Second
}

func (c *Config) GroupSetCacheTTL() time.Duration {
	return time.Duration(c.GroupSetCacheTTLSeconds) * time.Second
}

func (c *Config) LoginLogRetention() time.Duration {
	return time.Duration(c.LoginLogRetentionDays) * 24 * time.Hour
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if !isSupportedAlgorithm(c.JWTAlgorithm) {
		return fmt.Errorf("JWT_ALGORITHM %q is not supported (use one of %s)",
			c.JWTAlgorithm, strings.Join(supportedAlgorithms, ", "))
	}
	if c.JWTExpireSeconds <= 0 {
		return fmt.Errorf("JWT_EXPIRE_TIME must be positive, got %d", c.JWTExpireSeconds)
	}

	if err := validateSecret("JWT_SECRET_KEY", c.JWTSecretKey); err != nil {
		if isProduction {
			return err
		}
		log.Warn().Err(err).Msg("weak JWT secret accepted outside production")
	}

	if c.DefaultGroupPrefix != "" {
		log.Warn().
			Str("group_prefix", c.DefaultGroupPrefix).
			Msg("DEFAULT_GROUP_PREFIX is set: requests without a tenant header will be scoped to it")
	}

	return nil
}

func isSupportedAlgorithm(alg string) bool {
	for _, a := range supportedAlgorithms {
		if a == alg {
			return true
		}
	}
	return false
}

func validateSecret(name, value string) error {
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret", name)
		}
	}
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters (generate with: openssl rand -base64 32)", name)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
