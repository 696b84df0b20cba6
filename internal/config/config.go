package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	IntervalMs    int    `mapstructure:"interval_ms" yaml:"interval_ms"`
	StopTimeoutMs int    `mapstructure:"stop_timeout_ms" yaml:"stop_timeout_ms"`
	Autostart     bool   `mapstructure:"autostart" yaml:"autostart"`
	Swatch        bool   `mapstructure:"swatch" yaml:"swatch"`
	Listen        string `mapstructure:"listen" yaml:"listen"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string `mapstructure:"log_format" yaml:"log_format"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" yaml:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups" yaml:"log_max_backups"`
}

func Default() *Config {
	return &Config{
		IntervalMs:    100,
		StopTimeoutMs: 2000,
		Swatch:        true,
		Listen:        "127.0.0.1:7878",
		LogLevel:      "info",
		LogFormat:     "text",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
	}
}

// Interval is the pause between two samples.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// StopTimeout bounds how long a stop waits for the sampling goroutine.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.StopTimeoutMs) * time.Millisecond
}

// Load reads getcolor.yaml (or cfgFile when set) and GETCOLOR_* environment
// variables on top of Default. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	return load(viper.New(), cfgFile)
}

func load(v *viper.Viper, cfgFile string) (*Config, error) {
	cfg := Default()

	v.SetDefault("interval_ms", cfg.IntervalMs)
	v.SetDefault("stop_timeout_ms", cfg.StopTimeoutMs)
	v.SetDefault("autostart", cfg.Autostart)
	v.SetDefault("swatch", cfg.Swatch)
	v.SetDefault("listen", cfg.Listen)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_max_size_mb", cfg.LogMaxSizeMB)
	v.SetDefault("log_max_backups", cfg.LogMaxBackups)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("getcolor")
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GETCOLOR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(configDir(), "getcolor.yaml")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "getcolor")
}
