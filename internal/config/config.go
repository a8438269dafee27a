package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Secret        string
	DatabaseDSN   string
	HTTPPort      string
	AdminUser     string
	AdminPassword string
	ResetTimeout  time.Duration
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "6144"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file:bananaphone.db"
	}

	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
	}

	resetTimeout := 30 * time.Second
	if raw := os.Getenv("RESET_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			resetTimeout = time.Duration(secs) * time.Second
		} else {
			log.Printf("invalid RESET_TIMEOUT_SECONDS value %q, defaulting to 30", raw)
		}
	}

	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 6144", port)
		port = "6144"
	}

	return Config{
		Secret:        secret,
		DatabaseDSN:   dsn,
		HTTPPort:      port,
		AdminUser:     adminUser,
		AdminPassword: adminPassword,
		ResetTimeout:  resetTimeout,
	}
}
