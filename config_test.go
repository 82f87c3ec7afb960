package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		bind:          "0.0.0.0",
		port:          8080,
		resetTime:     10,
		defaultName:   "Unknown team",
		maxNameLength: 50,
		rateLimit:     20,
		natsSubject:   "buzzer.rounds",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, ""},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-cert and --tls-key"},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, "--tls-cert and --tls-key"},
		{"port zero", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 65536 }, "invalid port"},
		{"reset time zero", func(c *Config) { c.resetTime = 0 }, "invalid reset time"},
		{"name length zero", func(c *Config) { c.maxNameLength = 0 }, "invalid max name length"},
		{"negative rate limit", func(c *Config) { c.rateLimit = -1 }, "invalid rate limit"},
		{"rate limit disabled", func(c *Config) { c.rateLimit = 0 }, ""},
		{"nats without subject", func(c *Config) { c.natsURL, c.natsSubject = "nats://localhost:4222", " " }, "--nats-subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, 10, cfg.resetTime)
	assert.Equal(t, "Unknown team", cfg.defaultName)
	assert.Equal(t, 50, cfg.maxNameLength)
	assert.Equal(t, 20, cfg.rateLimit)
	assert.Equal(t, "buzzer.rounds", cfg.natsSubject)
	assert.Empty(t, cfg.natsURL)
	assert.Empty(t, cfg.corsOrigins)
	assert.NoError(t, cfg.validate())
}

func TestNewCmdReadsEnvironment(t *testing.T) {
	t.Setenv("BUZZER_RESET_TIME", "30")
	t.Setenv("BUZZER_DEFAULT_NAME", "Mystery team")
	t.Setenv("BUZZER_CORS_ORIGIN", "https://a.example,https://b.example")
	t.Setenv("BUZZER_VERBOSE", "true")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 30, cfg.resetTime)
	assert.Equal(t, "Mystery team", cfg.defaultName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.corsOrigins)
	assert.True(t, cfg.verbose)
}

func TestNewCmdFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("BUZZER_PORT", "9000")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9100", "--reset-time", "5"}))

	assert.Equal(t, 9100, cfg.port)
	assert.Equal(t, 5, cfg.resetTime)
}
