package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "http://localhost:5000/api", cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "5000", cfg.StubPort)
	assert.False(t, cfg.StubSeed)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BOOKBUSTER_API_URL", "https://library.example.com/api")
	t.Setenv("BOOKBUSTER_HTTP_TIMEOUT", "3s")
	t.Setenv("BOOKBUSTER_STUB_SEED", "true")

	cfg := Load()
	assert.Equal(t, "https://library.example.com/api", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.StubSeed)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("BOOKBUSTER_HTTP_TIMEOUT", "soon")
	cfg := Load()
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}
