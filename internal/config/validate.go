package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
)

const (
	minIntervalMs    = 10
	maxIntervalMs    = 5000
	minStopTimeoutMs = 100
	maxStopTimeoutMs = 30000
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the config for invalid values and returns all errors found.
// Out-of-range durations are clamped so the sampler never spins or stalls;
// everything reported is logged as a warning and does not prevent startup.
func (c *Config) Validate() []error {
	var errs []error

	if c.IntervalMs < minIntervalMs {
		errs = append(errs, fmt.Errorf("interval_ms %d is below minimum %d, clamping", c.IntervalMs, minIntervalMs))
		c.IntervalMs = minIntervalMs
	} else if c.IntervalMs > maxIntervalMs {
		errs = append(errs, fmt.Errorf("interval_ms %d exceeds maximum %d, clamping", c.IntervalMs, maxIntervalMs))
		c.IntervalMs = maxIntervalMs
	}

	if c.StopTimeoutMs < minStopTimeoutMs {
		errs = append(errs, fmt.Errorf("stop_timeout_ms %d is below minimum %d, clamping", c.StopTimeoutMs, minStopTimeoutMs))
		c.StopTimeoutMs = minStopTimeoutMs
	} else if c.StopTimeoutMs > maxStopTimeoutMs {
		errs = append(errs, fmt.Errorf("stop_timeout_ms %d exceeds maximum %d, clamping", c.StopTimeoutMs, maxStopTimeoutMs))
		c.StopTimeoutMs = maxStopTimeoutMs
	}

	if c.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Listen); err != nil {
			errs = append(errs, fmt.Errorf("listen %q is not a host:port address: %w", c.Listen, err))
		}
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}

	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return errs
}
