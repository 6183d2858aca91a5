package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process level configuration.
type Server struct {
	Addr     string `env:"NEWSDESK_ADDR" envDefault:":8080"`
	LogLevel string `env:"NEWSDESK_LOG_LEVEL" envDefault:"info"`
	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string `env:"NEWSDESK_OTLP_ENDPOINT"`

	HTTP     HTTPConfig     `envPrefix:"NEWSDESK_HTTP_"`
	Database DatabaseConfig `envPrefix:"NEWSDESK_DB_"`
	Redis    RedisConfig    `envPrefix:"NEWSDESK_REDIS_"`
	Kafka    KafkaConfig    `envPrefix:"NEWSDESK_KAFKA_"`
	Auth     AuthConfig     `envPrefix:"NEWSDESK_AUTH_"`
	Content  ContentConfig  `envPrefix:"NEWSDESK_CONTENT_"`
}

// HTTPConfig holds the listener timeouts. WriteTimeout must outlast the
// content request timeout or slow resolutions are cut mid-response.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"35s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig selects the SQL store holding the ingest and archive collections.
type DatabaseConfig struct {
	Driver       string `env:"DRIVER" envDefault:"sqlite"`
	DSN          string `env:"DSN" envDefault:"file:newsdesk.db?_pragma=busy_timeout(5000)"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
	Seed         bool   `env:"SEED" envDefault:"false"`
}

// RedisConfig configures the key-value store holding opened-set records.
// An empty URL selects the in-memory store.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures the audit stream. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"newsdesk.audit"`
}

// AuthConfig configures bearer token validation. An empty signing key
// disables authentication, and opened sets are read from the shared key.
type AuthConfig struct {
	SigningKey string `env:"SIGNING_KEY"`
	Issuer     string `env:"ISSUER" envDefault:"newsdesk"`
	Audience   string `env:"AUDIENCE" envDefault:"newsdesk-api"`
}

// ContentConfig tunes item resolution.
type ContentConfig struct {
	// FetchConcurrency bounds in-flight opened-set fetches; 0 is unbounded.
	FetchConcurrency int           `env:"FETCH_CONCURRENCY" envDefault:"0"`
	CriteriaTTL      time.Duration `env:"CRITERIA_TTL" envDefault:"30m"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Content.FetchConcurrency < 0 {
		return Server{}, fmt.Errorf("NEWSDESK_CONTENT_FETCH_CONCURRENCY must not be negative")
	}
	if cfg.HTTP.WriteTimeout > 0 && cfg.HTTP.WriteTimeout <= cfg.Content.RequestTimeout {
		return Server{}, fmt.Errorf("NEWSDESK_HTTP_WRITE_TIMEOUT must exceed NEWSDESK_CONTENT_REQUEST_TIMEOUT")
	}
	return cfg, nil
}
