package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all runtime settings for the client and the local gateway.
type Config struct {
	BaseURL     string // upstream API root, e.g. https://api.example.com
	Token       string // session bearer token; empty means unauthenticated
	TokenFile   string // fallback token location when CRM_TOKEN is unset
	TimeoutMs   int    // per-request timeout
	GatewayAddr string // listen address for `crm gateway`
	AuditDB     string // sqlite file for background-write audit entries
	LogCalls    bool   // log every API call to stderr
	PageSize    int    // listing page length
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		BaseURL:     "http://localhost:8000",
		TokenFile:   filepath.Join(home, ".deni-crm", "token"),
		TimeoutMs:   10000,
		GatewayAddr: ":8080",
		AuditDB:     filepath.Join(home, ".deni-crm", "audit.db"),
		LogCalls:    false,
		PageSize:    10,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset or invalid value. When CRM_TOKEN is unset the
// token file is read; a missing file leaves the token empty rather than
// failing, since absence is resolved at the sign-in boundary.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CRM_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("CRM_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("CRM_TOKEN"); v != "" {
		cfg.Token = v
	} else if data, err := os.ReadFile(cfg.TokenFile); err == nil {
		cfg.Token = strings.TrimSpace(string(data))
	}
	if v := os.Getenv("CRM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CRM_GATEWAY_ADDR"); v != "" {
		cfg.GatewayAddr = v
	}
	if v := os.Getenv("CRM_AUDIT_DB"); v != "" {
		cfg.AuditDB = v
	}
	if v := os.Getenv("CRM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CRM_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}

	return cfg
}

// SaveToken writes the session token to the configured token file,
// creating the parent directory when needed.
func SaveToken(cfg Config, token string) error {
	if err := os.MkdirAll(filepath.Dir(cfg.TokenFile), 0o755); err != nil {
		return err
	}
	return os.WriteFile(cfg.TokenFile, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}
