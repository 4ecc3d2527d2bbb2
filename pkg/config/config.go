package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Verifier, provider and store selectors
const (
	VerifierFirebase = "firebase"
	VerifierJWT      = "jwt"

	ProviderFirebase = "firebase"
	ProviderLocal    = "local"

	StoreFirestore = "firestore"
	StoreRedis     = "redis"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

// Config holds the environment driven configuration for the gateway.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"identity-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	DefaultLocale   string        `env:"DEFAULT_LOCALE" envDefault:"en"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// HTTP surface
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	MetricsAPIKey    string   `env:"METRICS_API_KEY"`

	// Tracing
	EnableTracing bool   `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Authentication
	AuthVerifier string `env:"AUTH_VERIFIER" envDefault:"firebase"`
	JWTSecret    string `env:"JWT_SECRET"`
	JWTIssuer    string `env:"JWT_ISSUER"`

	// Identity and profile backends
	IdentityProvider  string `env:"IDENTITY_PROVIDER" envDefault:"firebase"`
	ProfileStore      string `env:"PROFILE_STORE" envDefault:"firestore"`
	ProfileCollection string `env:"PROFILE_COLLECTION" envDefault:"users"`

	// Firebase
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisCluster  string `env:"REDIS_CLUSTER"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"identity-gateway"`

	// Database
	DatabaseDSN string `env:"DATABASE_DSN"`

	// Events
	RabbitMQURL    string `env:"RABBITMQ_URL"`
	EventsExchange string `env:"EVENTS_EXCHANGE" envDefault:"identity.events"`
}

// Load parses environment variables into Config and checks that every selected backend is configured.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.AuthVerifier = strings.ToLower(strings.TrimSpace(c.AuthVerifier))
	c.IdentityProvider = strings.ToLower(strings.TrimSpace(c.IdentityProvider))
	c.ProfileStore = strings.ToLower(strings.TrimSpace(c.ProfileStore))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.DatabaseDSN = strings.TrimSpace(c.DatabaseDSN)
	c.RabbitMQURL = strings.TrimSpace(c.RabbitMQURL)
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.AuthVerifier {
	case VerifierFirebase:
	case VerifierJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_VERIFIER is jwt")
		}
	default:
		return fmt.Errorf("unsupported AUTH_VERIFIER %q", c.AuthVerifier)
	}

	switch c.IdentityProvider {
	case ProviderFirebase:
	case ProviderLocal:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when IDENTITY_PROVIDER is local")
		}
	default:
		return fmt.Errorf("unsupported IDENTITY_PROVIDER %q", c.IdentityProvider)
	}

	switch c.ProfileStore {
	case StoreFirestore, StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" && strings.TrimSpace(c.RedisCluster) == "" {
			return fmt.Errorf("REDIS_ADDR or REDIS_CLUSTER is required when PROFILE_STORE is redis")
		}
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when PROFILE_STORE is postgres")
		}
	default:
		return fmt.Errorf("unsupported PROFILE_STORE %q", c.ProfileStore)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// NeedsFirebase reports whether any selected component talks to Firebase.
func (c *Config) NeedsFirebase() bool {
	return c.AuthVerifier == VerifierFirebase ||
		c.IdentityProvider == ProviderFirebase ||
		c.ProfileStore == StoreFirestore
}

// NeedsDatabase reports whether any selected component uses PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.IdentityProvider == ProviderLocal || c.ProfileStore == StorePostgres
}

// EventsEnabled reports whether domain events go to RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
