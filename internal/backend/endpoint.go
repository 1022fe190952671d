// Package backend talks to the OctoFit REST API: it resolves list endpoints
// from configuration and fetches their raw payloads.
package backend

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults for APIConfig.
const (
	DefaultPort    = 8000
	DefaultTimeout = 10 * time.Second
)

// ConfigHint tells users how to configure the backend host.
const ConfigHint = "Backend host not configured. Set OCTOFIT_CODESPACE_NAME or OCTOFIT_API_BASE_URL."

// APIConfig locates the backend.
type APIConfig struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string `koanf:"base_url"`
	// CodespaceName builds https://<name>-<port>.app.github.dev/api when
	// BaseURL is empty.
	CodespaceName string        `koanf:"codespace_name"`
	Port          int           `koanf:"port"`
	Timeout       time.Duration `koanf:"timeout"`
}

// Base returns the API root, or "" when neither BaseURL nor CodespaceName is set.
func (c APIConfig) Base() string {
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	name := strings.TrimSpace(c.CodespaceName)
	if name == "" {
		return ""
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("https://%s-%d.app.github.dev/api", name, port)
}

// Configured reports whether a backend host is configured.
func (c APIConfig) Configured() bool {
	return c.Base() != ""
}

// ResolveEndpoint returns the list URL for path, with a trailing slash.
// It returns "" when the backend is not configured.
func ResolveEndpoint(c APIConfig, path string) string {
	base := c.Base()
	if base == "" {
		return ""
	}
	return base + "/" + strings.Trim(path, "/") + "/"
}

// Validate checks that a configured base URL is an absolute http(s) URL.
func (c APIConfig) Validate() error {
	base := c.Base()
	if base == "" {
		return nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL must have a host, got: %s", base)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("API port out of range: %d", c.Port)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("API timeout must not be negative: %s", c.Timeout)
	}
	return nil
}
