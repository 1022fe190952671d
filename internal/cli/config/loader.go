package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configNames are the file names searched for when no --config is given.
var configNames = []string{"octofit.yaml", "octofit.yml"}

// flagKeys maps flag names whose config key is not the snake_case of the name.
var flagKeys = map[string]string{
	"base-url":  "api.base_url",
	"codespace": "api.codespace_name",
	"api-port":  "api.port",
	"timeout":   "api.timeout",
	"port":      "ui.port",
	"watch":     "ui.watch",
}

// Package-level config file tracking.
var (
	mu             sync.RWMutex
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > ./octofit.yaml > ./octofit.yml > user config dir.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range configNames {
			candidate := filepath.Join(dir, "octofit", name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// envKey maps OCTOFIT_API_BASE_URL to api.base_url.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"api", "ui"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// envValue maps an environment variable to its config key. Empty variables
// are skipped so they never blank a value from the config file.
func envValue(name, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envKey(name), value
}

// flagKey maps a changed flag to its config key; "" skips the flag.
func flagKey(f *pflag.Flag) string {
	if f.Name == "config" {
		return ""
	}
	if key, ok := flagKeys[f.Name]; ok {
		return key
	}
	// Transform kebab-case to snake_case for config keys
	return strings.ReplaceAll(f.Name, "-", "_")
}

// ResetConfig forgets the loaded configuration. Used for testing.
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	def := DefaultConfig()

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"api.base_url":       def.API.BaseURL,
		"api.codespace_name": def.API.CodespaceName,
		"api.port":           def.API.Port,
		"api.timeout":        def.API.Timeout.String(),
		"output":             string(def.Output),
		"verbose":            def.Verbose,
		"log_level":          def.LogLevel,
		"log_format":         def.LogFormat,
		"ui.port":            def.UI.Port,
		"ui.watch":           def.UI.Watch,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	fileUsed := findConfigFile(cfgFile)
	if fileUsed != "" {
		if err := k.Load(file.Provider(fileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", fileUsed, err)
		}
	}

	// 3. Load environment variables (OCTOFIT_ prefix)
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := flagKey(f)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Codespaces export the workspace name without our prefix.
	if cfg.API.BaseURL == "" && cfg.API.CodespaceName == "" {
		cfg.API.CodespaceName = os.Getenv(CodespaceEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store config for access by commands
	mu.Lock()
	configFileUsed = fileUsed
	currentConfig = &cfg
	mu.Unlock()

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	mu.RLock()
	defer mu.RUnlock()
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return currentConfig
}
