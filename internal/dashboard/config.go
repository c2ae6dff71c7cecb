package dashboard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBackendURL is used when BACKEND_URL is unset.
const DefaultBackendURL = "http://localhost:8000"

// Config holds dashboard client configuration.
type Config struct {
	BackendURL     string
	AdminToken     string
	RequestTimeout time.Duration
}

// LoadConfig reads configuration from the environment, loading a .env file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BackendURL: strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}

	timeout, err := parseTimeout(os.Getenv("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", d)
	}
	return d, nil
}
