// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"time"
)

// Config is the immutable runtime configuration of the hazel daemon.
// Everything is sourced from HAZEL_* environment variables; there are no
// hardcoded paths or credentials in code.
type Config struct {
	// Server
	ListenAddr     string
	MetricsAddr    string // empty serves /metrics on the main listener
	AllowedOrigins []string
	RateLimitRPM   int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// Data
	DataDir        string // directory with knowledge.yaml and menu.yaml
	WatchKnowledge bool   // hot-reload knowledge files on change

	// Session store
	StoreBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Matching
	MatchStrategy string // "substring" (default) or "weighted"

	// Orders
	OrderIDMode  string        // "random4" (default), "counter" or "uuid"
	PrepareDelay time.Duration // simulated preparing -> ready flip

	// LLM fallback
	LLMBaseURL  string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration
	LLMRetries  int
	LLMRPS      float64
	LLMDisabled bool

	// Logging
	LogLevel string

	// Tracing
	TracingEnabled  bool
	TracingExporter string // "http" or "grpc"
	TracingEndpoint string
	TracingSample   float64
}

// FromEnv assembles the configuration with documented defaults.
func FromEnv() Config {
	cfg := Config{
		ListenAddr:     ParseString("HAZEL_LISTEN", ":8080"),
		MetricsAddr:    ParseString("HAZEL_METRICS_ADDR", ""),
		AllowedOrigins: ParseStringSlice("HAZEL_CORS_ORIGINS", nil),
		RateLimitRPM:   ParseInt("HAZEL_RATE_LIMIT_RPM", 600),
		ReadTimeout:    ParseDuration("HAZEL_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   ParseDuration("HAZEL_WRITE_TIMEOUT", 30*time.Second),

		DataDir:        ParseString("HAZEL_DATA", "./data"),
		WatchKnowledge: ParseBool("HAZEL_KNOWLEDGE_WATCH", false),

		StoreBackend:  ParseString("HAZEL_STORE_BACKEND", "memory"),
		RedisAddr:     ParseString("HAZEL_REDIS_ADDR", "localhost:6379"),
		RedisPassword: ParseString("HAZEL_REDIS_PASSWORD", ""),
		RedisDB:       ParseInt("HAZEL_REDIS_DB", 0),

		MatchStrategy: ParseString("HAZEL_MATCH_STRATEGY", "substring"),

		OrderIDMode:  ParseString("HAZEL_ORDER_ID_MODE", "random4"),
		PrepareDelay: ParseDuration("HAZEL_PREPARE_DELAY", 5*time.Minute),

		LLMBaseURL: ParseString("HAZEL_LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMAPIKey:  ParseString("HAZEL_LLM_API_KEY", ""),
		LLMModel:   ParseString("HAZEL_LLM_MODEL", "openai/gpt-4o-mini"),
		LLMTimeout: ParseDuration("HAZEL_LLM_TIMEOUT", 10*time.Second),
		LLMRetries: ParseInt("HAZEL_LLM_RETRIES", 3),
		LLMRPS:     ParseFloat("HAZEL_LLM_RPS", 2),

		LogLevel: ParseString("HAZEL_LOG_LEVEL", "info"),

		TracingEnabled:  ParseBool("HAZEL_TRACING_ENABLED", false),
		TracingExporter: ParseString("HAZEL_TRACING_EXPORTER", "http"),
		TracingEndpoint: ParseString("HAZEL_TRACING_ENDPOINT", "localhost:4318"),
		TracingSample:   ParseFloat("HAZEL_TRACING_SAMPLE", 1.0),
	}
	cfg.LLMDisabled = cfg.LLMAPIKey == ""
	return cfg
}

// Validate rejects configurations that cannot produce a working daemon.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}
	switch c.MatchStrategy {
	case "substring", "weighted":
	default:
		return fmt.Errorf("unknown match strategy: %q", c.MatchStrategy)
	}
	switch c.OrderIDMode {
	case "random4", "counter", "uuid":
	default:
		return fmt.Errorf("unknown order id mode: %q", c.OrderIDMode)
	}
	if c.DataDir == "" {
		return fmt.Errorf("HAZEL_DATA must not be empty")
	}
	if c.LLMRetries < 1 {
		return fmt.Errorf("HAZEL_LLM_RETRIES must be at least 1")
	}
	return nil
}
