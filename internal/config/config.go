package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port       string
	Env        string
	CORSOrigin string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Admin authorization
	AdminToken       string
	AdminTokenBcrypt string
	SessionSecret    string
	SessionTTL       time.Duration

	// Integration feed
	AMQPURL      string
	AMQPExchange string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:       getEnv("PORT", "8000"),
		Env:        getEnv("ENV", "development"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "asrama"),
		DBPassword: getEnv("DB_PASSWORD", "asrama"),
		DBName:     getEnv("DB_NAME", "asrama"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "asrama.db"),

		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		AdminTokenBcrypt: os.Getenv("ADMIN_TOKEN_BCRYPT"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "asrama.ledger"),
	}

	// Sessions are signed with their own secret when given, otherwise with the
	// plain admin token. A bcrypt hash is not secret enough to sign with, so a
	// hash-only setup needs SESSION_SECRET for sessions to work.
	config.SessionSecret = getEnv("SESSION_SECRET", config.AdminToken)
	if config.SessionSecret == "" && config.AdminTokenBcrypt != "" {
		log.Println("Warning: SESSION_SECRET not set, admin sessions are disabled with ADMIN_TOKEN_BCRYPT alone")
	}

	ttlStr := getEnv("SESSION_TTL", "12h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		log.Printf("Warning: invalid SESSION_TTL value '%s', falling back to 12h\n", ttlStr)
		ttl = 12 * time.Hour
	}
	config.SessionTTL = ttl

	return config, nil
}

// AdminConfigured reports whether any admin secret is set.
func (c *Config) AdminConfigured() bool {
	return c.AdminToken != "" || c.AdminTokenBcrypt != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
