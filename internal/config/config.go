package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/khamseaffan/PartSelectAI/pkg/config"
)

// Config holds all configuration for the assistant backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8010"`

	// Redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Retention windows in hours
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"168"`
	CartTTLHours    int `env:"CART_TTL_HOURS" envDefault:"168"`
	OrderTTLHours   int `env:"ORDER_TTL_HOURS" envDefault:"336"`

	// Where a finalized cart sends the user
	CheckoutRedirectURL string `env:"CHECKOUT_REDIRECT_URL" envDefault:"https://www.partselect.com/"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Per-session rate limiting; zero RPS disables it
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Store circuit breaker
	BreakerMinRequests  uint32        `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerOpenTimeout  time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"15s"`

	// Commands slower than this are logged; zero disables the log.
	RedisSlowCommand time.Duration `env:"REDIS_SLOW_COMMAND" envDefault:"100ms"`

	// Allowed browser origins for the chat widget
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load partselect config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SessionTTLHours <= 0 || c.CartTTLHours <= 0 || c.OrderTTLHours <= 0 {
		return errors.New("retention windows must be positive")
	}
	if c.OrderTTLHours < c.CartTTLHours {
		return fmt.Errorf("ORDER_TTL_HOURS (%d) must not be shorter than CART_TTL_HOURS (%d)", c.OrderTTLHours, c.CartTTLHours)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("invalid OTEL_SAMPLE_RATE: %v (must be between 0 and 1)", c.OTELSampleRate)
	}
	if c.RateLimitRPS < 0 || (c.RateLimitRPS > 0 && c.RateLimitBurst < 1) {
		return fmt.Errorf("invalid rate limit: %v rps, burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("invalid BREAKER_FAILURE_RATIO: %v", c.BreakerFailureRatio)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	u, err := url.Parse(c.CheckoutRedirectURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid CHECKOUT_REDIRECT_URL: %q", c.CheckoutRedirectURL)
	}
	return nil
}

// SessionTTL returns the session retention window.
func (c *Config) SessionTTL() time.Duration { return time.Duration(c.SessionTTLHours) * time.Hour }

// CartTTL returns the cart retention window.
func (c *Config) CartTTL() time.Duration { return time.Duration(c.CartTTLHours) * time.Hour }

// OrderTTL returns the order record retention window.
func (c *Config) OrderTTL() time.Duration { return time.Duration(c.OrderTTLHours) * time.Hour }
