package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Browser   BrowserConfig
	Verify    VerifyConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3000
	Mode string // "debug", "release", "test"; default: "release"
}

// CatalogConfig locates the pre-normalized catalog file.
type CatalogConfig struct {
	// Path is the JSON file served by GET /api/products. Relative paths
	// resolve against the process working directory.
	Path string // default: "productos_normalizados.json"
}

// BrowserConfig controls the Chrome instance launched per verification.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in containers).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy routes browser traffic through a proxy URL.
	Proxy string

	// Stealth opens pages with anti-bot-detection evasions.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types the browser never fetches.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// VerifyConfig controls the table verification.
type VerifyConfig struct {
	// NavigationTimeout bounds navigation up to DOMContentLoaded.
	NavigationTimeout time.Duration // default: 30s

	// SelectorTimeout bounds the wait for the table body to appear.
	SelectorTimeout time.Duration // default: 10s

	// TableSelector locates the table body holding the product rows.
	TableSelector string // default: "#tablaProductos tbody"

	// ExpectedPath optionally points at a YAML/JSON expected dataset.
	// Empty means the built-in dataset.
	ExpectedPath string
}

// RateLimitConfig controls per-client rate limiting of POST /api/verify.
type RateLimitConfig struct {
	// Enabled toggles the limiter.
	Enabled bool // default: false

	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per client IP.
	Burst int // default: 3
}

// WebhookConfig controls delivery of finished verification results.
type WebhookConfig struct {
	// URL receives a verify.completed event per run. Empty disables delivery.
	URL string

	// Secret signs event bodies with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"

	// File switches output from stdout to a size-rotated file.
	File string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SHELFCHECK_HOST", "0.0.0.0"),
			Port: envIntOr("PORT", 3000),
			Mode: envOr("SHELFCHECK_MODE", "release"),
		},
		Catalog: CatalogConfig{
			Path: envOr("SHELFCHECK_CATALOG_PATH", "productos_normalizados.json"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("SHELFCHECK_HEADLESS", true),
			NoSandbox:  envBoolOr("SHELFCHECK_NO_SANDBOX", true),
			BrowserBin: os.Getenv("SHELFCHECK_BROWSER_BIN"),
			Proxy:      os.Getenv("SHELFCHECK_PROXY"),
			Stealth:    envBoolOr("SHELFCHECK_STEALTH", false),
			BlockedResourceTypes: envSliceOr("SHELFCHECK_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Verify: VerifyConfig{
			NavigationTimeout: envDurationOr("SHELFCHECK_NAV_TIMEOUT", 30*time.Second),
			SelectorTimeout:   envDurationOr("SHELFCHECK_SELECTOR_TIMEOUT", 10*time.Second),
			TableSelector:     envOr("SHELFCHECK_TABLE_SELECTOR", "#tablaProductos tbody"),
			ExpectedPath:      os.Getenv("SHELFCHECK_EXPECTED_PATH"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           envBoolOr("SHELFCHECK_RATE_ENABLED", false),
			RequestsPerSecond: envFloatOr("SHELFCHECK_RATE_RPS", 1.0),
			Burst:             envIntOr("SHELFCHECK_RATE_BURST", 3),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SHELFCHECK_WEBHOOK_URL"),
			Secret: os.Getenv("SHELFCHECK_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("SHELFCHECK_LOG_LEVEL", "info"),
			Format: envOr("SHELFCHECK_LOG_FORMAT", "json"),
			File:   os.Getenv("SHELFCHECK_LOG_FILE"),
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path must not be empty")
	}
	if c.Verify.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive, got %s", c.Verify.NavigationTimeout)
	}
	if c.Verify.SelectorTimeout <= 0 {
		return fmt.Errorf("selector timeout must be positive, got %s", c.Verify.SelectorTimeout)
	}
	if strings.TrimSpace(c.Verify.TableSelector) == "" {
		return fmt.Errorf("table selector must not be empty")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit needs positive rps and burst, got %v/%d",
			c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
