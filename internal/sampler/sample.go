package sampler

import (
	"fmt"
	"time"

	"github.com/hanamizuki10/get-color-for-windows/internal/colorinfo"
	"github.com/hanamizuki10/get-color-for-windows/internal/screen"
)

// State of the sampler: stopped (no goroutine) or running.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// MarshalText makes State encode as "stopped"/"running" in JSON and YAML.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "stopped":
		*s = Stopped
	default:
		return fmt.Errorf("unknown sampler state %q", text)
	}
	return nil
}

// Sample is one reading of the pixel under the cursor.
type Sample struct {
	X         int                    `json:"x" yaml:"x"`
	Y         int                    `json:"y" yaml:"y"`
	Monitor   *screen.MonitorRect    `json:"monitor,omitempty" yaml:"monitor,omitempty"`
	Color     colorinfo.SampledColor `json:"color" yaml:"color"`
	ColorText string                 `json:"colorText" yaml:"color_text"`
	HexText   string                 `json:"hex" yaml:"hex"`
	Named     string                 `json:"named,omitempty" yaml:"named,omitempty"` // SVG name on an exact match
	OK        bool                   `json:"ok" yaml:"ok"`
	At        time.Time              `json:"at" yaml:"at"`
}

func errorSample(x, y int, m *screen.MonitorRect, at time.Time) Sample {
	return Sample{
		X:         x,
		Y:         y,
		Monitor:   m,
		Color:     colorinfo.Black,
		ColorText: colorinfo.ErrorText,
		HexText:   colorinfo.ErrorText,
		At:        at,
	}
}
