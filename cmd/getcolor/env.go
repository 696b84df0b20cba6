package main

import (
	"fmt"
	"io"

	"github.com/hanamizuki10/get-color-for-windows/internal/config"
	"github.com/hanamizuki10/get-color-for-windows/internal/health"
	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
	"github.com/hanamizuki10/get-color-for-windows/internal/sampler"
	"github.com/hanamizuki10/get-color-for-windows/internal/screen"
)

var log = logging.L("main")

// env holds what every command needs: config, logging and the monitor
// layout, which is enumerated once and never refreshed.
type env struct {
	cfg     *config.Config
	health  *health.Monitor
	layout  screen.Layout
	pointer screen.Pointer
	logs    io.Closer
}

func bootstrap() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if autostart {
		cfg.Autostart = true
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	cfg.Validate()

	logs, err := logging.Setup(cfg.LogFormat, cfg.LogLevel, cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
	if err != nil {
		log.Warn("log file unavailable, logging to stderr", "file", cfg.LogFile, logging.KeyError, err)
	}

	if err := screen.EnablePerMonitorDPI(); err != nil {
		log.Warn("per-monitor DPI awareness not enabled, coordinates may be scaled", logging.KeyError, err)
	}

	layout, err := screen.Enumerate()
	if err != nil {
		logs.Close()
		return nil, err
	}
	for i, m := range layout.Monitors() {
		log.Debug("monitor", logging.KeyMonitor, i, "bounds", m.String())
	}

	return &env{
		cfg:    cfg,
		health: health.NewMonitor(),
		layout: layout,
		logs:   logs,
	}, nil
}

// newSampler opens the platform pointer and builds a stopped sampler
// publishing through d to v. Both may be nil for one-shot use.
func (e *env) newSampler(d sampler.Dispatcher, v sampler.View) (*sampler.Sampler, error) {
	if e.pointer == nil {
		p, err := screen.NewPointer()
		if err != nil {
			return nil, fmt.Errorf("failed to open cursor source: %w", err)
		}
		e.pointer = p
	}
	return sampler.New(e.layout, e.pointer, screen.NewScreenGrabber(), d, v, sampler.Options{
		Interval:    e.cfg.Interval(),
		StopTimeout: e.cfg.StopTimeout(),
		Health:      e.health,
	}), nil
}

func (e *env) close() {
	if e.pointer != nil {
		if err := e.pointer.Close(); err != nil {
			log.Debug("closing pointer", logging.KeyError, err)
		}
	}
	e.logs.Close()
}
