package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks required fields and enumerated values.
func Validate(cfg *ServerConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if cfg.Server.ReadTimeoutMs < 0 || cfg.Server.WriteTimeoutMs < 0 || cfg.Server.IdleTimeoutMs < 0 {
		errs = append(errs, "server: timeouts must not be negative")
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseLevel maps a config level string onto an slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log: unknown level %q", s)
	}
}
