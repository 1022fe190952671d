package config

import (
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.API.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := charmlog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port out of range: %d", c.UI.Port))
	}

	return errors.Join(errs...)
}
