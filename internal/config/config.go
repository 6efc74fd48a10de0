package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      int    `envconfig:"APP_PORT" default:"8080"`
	Store     string `envconfig:"APP_STORE" default:"postgres"`
	DB        DBConfig
	Redis     RedisConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Crypto    CryptoConfig
	Lifecycle LifecycleConfig
	Admin     AdminConfig
}

// database configuration
type DBConfig struct {
	DSN             string        `envconfig:"DATABASE_URL"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	Migrate         bool          `envconfig:"DB_MIGRATE" default:"true"`
}

// redis configuration; an empty address disables the distributed candidate lock
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	LockTTL  time.Duration `envconfig:"REDIS_LOCK_TTL" default:"5s"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:4173,http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"60m"`
}

// encryption configuration
type CryptoConfig struct {
	Secret string `envconfig:"AES_SECRET_KEY" required:"true"`
}

// interview lifecycle policy
type LifecycleConfig struct {
	MaxFollowupAttempts int `envconfig:"LIFECYCLE_MAX_FOLLOWUP_ATTEMPTS" default:"4"`
}

// bootstrap admin; seeded at startup when both email and password are set
type AdminConfig struct {
	Name     string `envconfig:"BOOTSTRAP_ADMIN_NAME" default:"Admin"`
	Email    string `envconfig:"BOOTSTRAP_ADMIN_EMAIL"`
	Password string `envconfig:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Seed reports whether a bootstrap admin is configured
func (a AdminConfig) Seed() bool {
	return a.Email != "" && a.Password != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	switch c.Store {
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when APP_STORE=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store: %s (must be one of: postgres, memory)", c.Store)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("REDIS_LOCK_TTL must be positive")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_TTL must be positive")
	}
	secretLen := len(c.Crypto.Secret)
	if secretLen != 16 && secretLen != 24 && secretLen != 32 {
		return fmt.Errorf("AES_SECRET_KEY must be 16, 24, or 32 bytes (got %d)", secretLen)
	}
	if len(c.GetCORSOrigins()) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}
	if c.Lifecycle.MaxFollowupAttempts < 1 {
		return fmt.Errorf("LIFECYCLE_MAX_FOLLOWUP_ATTEMPTS must be at least 1")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	if c.Admin.Password != "" && len(c.Admin.Password) < 12 {
		return fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD must be at least 12 characters")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, Store=%s, DB.MaxConns=%d, Redis.Enabled=%t, "+
		"CORS.Origins=%d, JWT.AccessTokenTTL=%s, Lifecycle.MaxFollowupAttempts=%d}",
		c.Env, c.Port, c.Store, c.DB.MaxConns, c.Redis.Addr != "",
		len(c.CORS.TrustedOrigins), c.JWT.AccessTokenTTL, c.Lifecycle.MaxFollowupAttempts)
}
