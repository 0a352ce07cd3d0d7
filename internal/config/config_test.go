// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, "substring", cfg.MatchStrategy)
	assert.Equal(t, "random4", cfg.OrderIDMode)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 3, cfg.LLMRetries)
	assert.True(t, cfg.LLMDisabled, "no API key in env means the fallback is disabled")
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HAZEL_LISTEN", ":9999")
	t.Setenv("HAZEL_STORE_BACKEND", "redis")
	t.Setenv("HAZEL_MATCH_STRATEGY", "weighted")
	t.Setenv("HAZEL_ORDER_ID_MODE", "uuid")
	t.Setenv("HAZEL_LLM_API_KEY", "sk-test")
	t.Setenv("HAZEL_LLM_TIMEOUT", "2s")
	t.Setenv("HAZEL_CORS_ORIGINS", "http://localhost:3000, http://localhost:5173")

	cfg := FromEnv()
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "weighted", cfg.MatchStrategy)
	assert.Equal(t, "uuid", cfg.OrderIDMode)
	assert.Equal(t, 2*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.LLMDisabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"store", func(c *Config) { c.StoreBackend = "bolt" }},
		{"strategy", func(c *Config) { c.MatchStrategy = "fuzzy" }},
		{"order-id", func(c *Config) { c.OrderIDMode = "snowflake" }},
		{"data-dir", func(c *Config) { c.DataDir = "" }},
		{"retries", func(c *Config) { c.LLMRetries = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := FromEnv()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseHelpersFallOnGarbage(t *testing.T) {
	t.Setenv("HAZEL_TEST_INT", "not-a-number")
	t.Setenv("HAZEL_TEST_BOOL", "maybe")
	t.Setenv("HAZEL_TEST_DUR", "soon")
	t.Setenv("HAZEL_TEST_FLOAT", "pi")

	assert.Equal(t, 7, ParseInt("HAZEL_TEST_INT", 7))
	assert.Equal(t, true, ParseBool("HAZEL_TEST_BOOL", true))
	assert.Equal(t, time.Second, ParseDuration("HAZEL_TEST_DUR", time.Second))
	assert.Equal(t, 1.5, ParseFloat("HAZEL_TEST_FLOAT", 1.5))
}
