package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("default config should validate cleanly, got %v", errs)
	}
	if cfg.Interval() != 100*time.Millisecond {
		t.Fatalf("Interval() = %v, want 100ms", cfg.Interval())
	}
}

func TestValidateClampsInterval(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, minIntervalMs},
		{"negative", -5, minIntervalMs},
		{"huge", 999999, maxIntervalMs},
		{"in range", 250, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.IntervalMs = tt.in
			errs := cfg.Validate()
			if cfg.IntervalMs != tt.want {
				t.Fatalf("IntervalMs = %d, want %d", cfg.IntervalMs, tt.want)
			}
			if tt.in != tt.want && len(errs) == 0 {
				t.Fatal("expected a clamping error")
			}
		})
	}
}

func TestValidateClampsStopTimeout(t *testing.T) {
	cfg := Default()
	cfg.StopTimeoutMs = 0
	cfg.Validate()
	if cfg.StopTimeoutMs != minStopTimeoutMs {
		t.Fatalf("StopTimeoutMs = %d, want %d", cfg.StopTimeoutMs, minStopTimeoutMs)
	}
}

func TestValidateRejectsBadListen(t *testing.T) {
	cfg := Default()
	cfg.Listen = "no-port-here"
	errs := cfg.Validate()
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "listen") {
		t.Fatalf("expected one listen error, got %v", errs)
	}
}

func TestValidateLogSettings(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	cfg.LogFormat = "xml"
	errs := cfg.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "getcolor.yaml")
	data := "interval_ms: 250\nlisten: 127.0.0.1:9000\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GETCOLOR_LOG_LEVEL", "debug")

	cfg, err := load(viper.New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IntervalMs != 250 {
		t.Errorf("IntervalMs = %d, want 250", cfg.IntervalMs)
	}
	if cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env override debug", cfg.LogLevel)
	}
	if cfg.StopTimeoutMs != 2000 {
		t.Errorf("StopTimeoutMs = %d, want default 2000", cfg.StopTimeoutMs)
	}
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IntervalMs != 100 || !cfg.Swatch {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
