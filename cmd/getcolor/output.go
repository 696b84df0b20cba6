package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hanamizuki10/get-color-for-windows/internal/sampler"
	"github.com/hanamizuki10/get-color-for-windows/internal/screen"
)

func sampleOnce() error {
	if err := checkFormat(sampleFormat); err != nil {
		return err
	}
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	s, err := e.newSampler(nil, nil)
	if err != nil {
		return err
	}
	return writeSample(os.Stdout, sampleFormat, s.SampleOnce())
}

func listMonitors() error {
	if err := checkFormat(listFormat); err != nil {
		return err
	}
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	return writeMonitors(os.Stdout, listFormat, e.layout.Monitors())
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
	}
}

func writeSample(w io.Writer, format string, s sampler.Sample) error {
	switch format {
	case "json":
		return writeJSON(w, s)
	case "yaml":
		return writeYAML(w, s)
	case "text":
		monitor := "none"
		if s.Monitor != nil {
			monitor = s.Monitor.String()
		}
		if _, err := fmt.Fprintf(w, "X: %d\nY: %d\nMonitor: %s\nColor: %s\nHex: %s\n",
			s.X, s.Y, monitor, s.ColorText, s.HexText); err != nil {
			return err
		}
		if s.Named != "" {
			_, err := fmt.Fprintf(w, "Name: %s\n", s.Named)
			return err
		}
		return nil
	default:
		return checkFormat(format)
	}
}

func writeMonitors(w io.Writer, format string, monitors []screen.MonitorRect) error {
	switch format {
	case "json":
		return writeJSON(w, monitors)
	case "yaml":
		return writeYAML(w, monitors)
	case "text":
		for i, m := range monitors {
			if _, err := fmt.Fprintf(w, "%d  %s\n", i, m); err != nil {
				return err
			}
		}
		return nil
	default:
		return checkFormat(format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
