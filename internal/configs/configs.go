/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, and mailbox capacity.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultMailboxCapacity is the number of notifications a user's mailbox can
// buffer before best-effort deliveries start being dropped.
const DefaultMailboxCapacity = 4

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// MailboxCapacity bounds every per-user notification queue.
	MailboxCapacity int
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Mailbox Settings ---
	capacityStr := os.Getenv("MAILBOX_CAPACITY")
	if capacityStr == "" {
		cfg.MailboxCapacity = DefaultMailboxCapacity
	} else {
		capacity, err := strconv.Atoi(capacityStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MAILBOX_CAPACITY environment variable: %w", err)
		}
		if capacity < 1 {
			return nil, fmt.Errorf("mailbox capacity must be at least 1, got %d", capacity)
		}
		cfg.MailboxCapacity = capacity
	}

	return cfg, nil
}
