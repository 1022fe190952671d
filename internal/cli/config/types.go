// Package config loads OctoFit CLI configuration from defaults, a YAML
// file, OCTOFIT_* environment variables and command-line flags.
package config

import (
	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/cli/output"
)

// APIConfig is an alias for the backend location settings.
type APIConfig = backend.APIConfig

// UIConfig holds configuration for the web server.
type UIConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		Port:  DefaultUIPort,
		Watch: true,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	API       APIConfig   `koanf:"api"`
	Output    output.Mode `koanf:"output"`
	Verbose   bool        `koanf:"verbose"`
	LogLevel  string      `koanf:"log_level"`
	LogFormat string      `koanf:"log_format"`
	UI        UIConfig    `koanf:"ui"`
}

// Default configuration values.
const (
	DefaultOutput    = output.ModeAuto
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultUIPort    = 8765

	// EnvPrefix prefixes every environment variable read by the loader.
	EnvPrefix = "OCTOFIT_"
	// CodespaceEnv is the variable GitHub Codespaces sets; it is used when
	// no backend location is configured otherwise.
	CodespaceEnv = "CODESPACE_NAME"
)

// DefaultConfig returns the configuration used when nothing is loaded.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Port:    backend.DefaultPort,
			Timeout: backend.DefaultTimeout,
		},
		Output:    DefaultOutput,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		UI:        DefaultUIConfig(),
	}
}
