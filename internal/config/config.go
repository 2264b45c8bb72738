// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AuthBaseURL string
	APIBaseURL  string
	ListenAddr  string
	DBPath      string
}

// Load reads configuration from environment variables and returns a validated
// Config. All variables are optional and default to a local development
// setup: LINKDECK_AUTH_URL (http://localhost:9092), LINKDECK_API_URL
// (http://localhost:9094), LINKDECK_LISTEN_ADDR (127.0.0.1:8087),
// LINKDECK_DB_PATH (linkdeck.db).
func Load() (*Config, error) {
	authBaseURL := "http://localhost:9092"
	if v, ok := os.LookupEnv("LINKDECK_AUTH_URL"); ok {
		authBaseURL = v
	}
	if err := validateBaseURL("LINKDECK_AUTH_URL", authBaseURL); err != nil {
		return nil, err
	}

	apiBaseURL := "http://localhost:9094"
	if v, ok := os.LookupEnv("LINKDECK_API_URL"); ok {
		apiBaseURL = v
	}
	if err := validateBaseURL("LINKDECK_API_URL", apiBaseURL); err != nil {
		return nil, err
	}

	listenAddr := "127.0.0.1:8087"
	if v, ok := os.LookupEnv("LINKDECK_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "linkdeck.db"
	if v, ok := os.LookupEnv("LINKDECK_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		AuthBaseURL: authBaseURL,
		APIBaseURL:  apiBaseURL,
		ListenAddr:  listenAddr,
		DBPath:      dbPath,
	}, nil
}

func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s has invalid URL %q: %w", name, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", name, raw)
	}
	return nil
}
