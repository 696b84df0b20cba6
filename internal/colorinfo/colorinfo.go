// Package colorinfo formats sampled screen colors for display.
package colorinfo

import (
	"fmt"
	"image/color"
	"sort"

	"golang.org/x/image/colornames"
)

// ErrorText replaces both color strings when the pointer is outside every
// known monitor.
const ErrorText = "unexpected error while reading color information"

// SampledColor is a single opaque screen color.
type SampledColor struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Black is shown in the swatch when no color could be read.
var Black = SampledColor{}

// FromColor drops alpha; screen pixels are always opaque.
func FromColor(c color.Color) SampledColor {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return SampledColor{R: rgba.R, G: rgba.G, B: rgba.B}
}

// Hex formats the color as #RRGGBB with uppercase digits.
func (c SampledColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Name returns the color as "Color [A=255, R=r, G=g, B=b]". A pixel read
// from the screen carries no name, so named colors print the same way.
func (c SampledColor) Name() string {
	return fmt.Sprintf("Color [A=255, R=%d, G=%d, B=%d]", c.R, c.G, c.B)
}

// Named reports the SVG color name for c, if it matches one exactly.
func (c SampledColor) Named() (string, bool) {
	name, ok := nameOf[c]
	return name, ok
}

func (c SampledColor) String() string { return c.Hex() }

// nameOf picks the alphabetically first name where several share a value
// (aqua/cyan, gray/grey, fuchsia/magenta).
var nameOf = func() map[SampledColor]string {
	names := make([]string, 0, len(colornames.Map))
	for name := range colornames.Map {
		names = append(names, name)
	}
	sort.Strings(names)

	m := make(map[SampledColor]string, len(names))
	for _, name := range names {
		key := FromColor(colornames.Map[name])
		if _, taken := m[key]; !taken {
			m[key] = name
		}
	}
	return m
}()
