package config

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config carries every runtime setting the process needs. It is loaded
// once in main and passed explicitly to constructors; nothing else in
// the codebase reads the environment.
type Config struct {
	Port int

	JWTSecret string
	TokenTTL  time.Duration

	// Bulk endpoint cardinality limits. Create and update share the
	// smaller batch size; delete allows a larger one.
	BulkCreateLimit int
	BulkUpdateLimit int
	BulkDeleteLimit int

	DBHost     string
	DBPort     string
	DBUsername string
	DBPassword string
	DBDatabase string
}

// Load reads the configuration from the environment (a .env file is
// picked up by the godotenv autoload import), falling back to defaults
// suitable for local development.
func Load() Config {
	return Config{
		Port:            envInt("PORT", 8080),
		JWTSecret:       envString("JWT_SECRET", "local-test"),
		TokenTTL:        envDuration("JWT_TTL", time.Hour),
		BulkCreateLimit: envInt("BULK_CREATE_LIMIT", 10),
		BulkUpdateLimit: envInt("BULK_UPDATE_LIMIT", 10),
		BulkDeleteLimit: envInt("BULK_DELETE_LIMIT", 100),
		DBHost:          envString("BLUEPRINT_DB_HOST", "localhost"),
		DBPort:          envString("BLUEPRINT_DB_PORT", "5432"),
		DBUsername:      envString("BLUEPRINT_DB_USERNAME", "postgres"),
		DBPassword:      envString("BLUEPRINT_DB_PASSWORD", "postgres"),
		DBDatabase:      envString("BLUEPRINT_DB_DATABASE", "todos"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid value %q for %s, using default %d", v, key, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid value %q for %s, using default %s", v, key, fallback)
		return fallback
	}
	return d
}
