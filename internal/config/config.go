// Package config resolves runtime settings from the environment, with a
// best-effort .env load for development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the binaries read from the environment.
type Config struct {
	// BaseURL is the backend the client talks to.
	BaseURL string
	// SessionDir overrides where the session record is persisted. Empty
	// means the user config dir.
	SessionDir string
	// OTLPEndpoint, when set, enables trace export over OTLP/HTTP.
	OTLPEndpoint string
	// LogLevel selects the zap level: debug, info, warn, error.
	LogLevel string
	// HTTPTimeout bounds each request.
	HTTPTimeout time.Duration
	// StubPort is the dev backend's listen port.
	StubPort string
	// StubSeed preloads the dev backend with fixtures on boot.
	StubSeed bool
}

// Load reads the environment. A .env file in the working directory is
// merged in first; a missing one is not an error.
func Load() Config {
	godotenv.Load()

	return Config{
		BaseURL:      getEnv("BOOKBUSTER_API_URL", "http://localhost:5000/api"),
		SessionDir:   getEnv("BOOKBUSTER_SESSION_DIR", ""),
		OTLPEndpoint: getEnv("BOOKBUSTER_OTLP_ENDPOINT", ""),
		LogLevel:     getEnv("BOOKBUSTER_LOG_LEVEL", "info"),
		HTTPTimeout:  getDuration("BOOKBUSTER_HTTP_TIMEOUT", 15*time.Second),
		StubPort:     getEnv("BOOKBUSTER_STUB_PORT", "5000"),
		StubSeed:     getEnv("BOOKBUSTER_STUB_SEED", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
