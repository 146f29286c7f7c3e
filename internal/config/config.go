// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	OrgURL     string
	Token      string
	Project    string
	Repository string

	ListenAddr     string
	DBPath         string
	RequestTimeout time.Duration

	// SecretKey is the 32-byte AES-256 key for credential storage, or nil
	// when AZDOPANEL_SECRET_KEY is unset (storage disabled).
	SecretKey []byte
}

// HasConnection returns true when every identifier needed to build a remote
// client is present. Used by the composition root to decide whether to
// create the client at startup or start with a nil client in the provider.
func (c *Config) HasConnection() bool {
	return c.OrgURL != "" && c.Token != "" && c.Project != "" && c.Repository != ""
}

// Load reads configuration from environment variables and returns a
// validated Config. Connection identifiers (AZDOPANEL_ORG_URL,
// AZDOPANEL_TOKEN, AZDOPANEL_PROJECT, AZDOPANEL_REPO) are optional; absent
// values fall back to the settings store, and the app starts unconfigured
// when neither source has them. Optional variables with defaults:
// AZDOPANEL_LISTEN_ADDR (127.0.0.1:8080), AZDOPANEL_DB_PATH (azdopanel.db),
// AZDOPANEL_REQUEST_TIMEOUT (15s). AZDOPANEL_SECRET_KEY, when set, must be
// 64 hex characters (a 32-byte AES-256 key).
func Load() (*Config, error) {
	cfg := &Config{
		OrgURL:     os.Getenv("AZDOPANEL_ORG_URL"),
		Token:      os.Getenv("AZDOPANEL_TOKEN"),
		Project:    os.Getenv("AZDOPANEL_PROJECT"),
		Repository: os.Getenv("AZDOPANEL_REPO"),
	}

	cfg.ListenAddr = "127.0.0.1:8080"
	if v, ok := os.LookupEnv("AZDOPANEL_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	cfg.DBPath = "azdopanel.db"
	if v, ok := os.LookupEnv("AZDOPANEL_DB_PATH"); ok {
		cfg.DBPath = v
	}

	cfg.RequestTimeout = 15 * time.Second
	if v, ok := os.LookupEnv("AZDOPANEL_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("AZDOPANEL_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("AZDOPANEL_REQUEST_TIMEOUT must be positive, got %q", v)
		}
		cfg.RequestTimeout = parsed
	}

	if v, ok := os.LookupEnv("AZDOPANEL_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("AZDOPANEL_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("AZDOPANEL_SECRET_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}
