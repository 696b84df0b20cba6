package screen

import (
	"fmt"
	"image"
)

// MonitorRect is one display's bounds in virtual-desktop coordinates.
// Right and Bottom are exclusive as reported by the platform; Width and
// Height are derived from them.
type MonitorRect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// NewMonitorRect converts platform bounds into a MonitorRect.
func NewMonitorRect(r image.Rectangle) MonitorRect {
	r = r.Canon()
	return MonitorRect{
		Left:   r.Min.X,
		Top:    r.Min.Y,
		Right:  r.Max.X,
		Bottom: r.Max.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
}

// Contains reports whether (x, y) lies within the rectangle, inclusive on
// all four edges. The right column and bottom row therefore also match the
// monitor to the right of or below this one.
func (m MonitorRect) Contains(x, y int) bool {
	return m.Left <= x && x <= m.Right && m.Top <= y && y <= m.Bottom
}

// Rectangle returns the bounds as an image.Rectangle.
func (m MonitorRect) Rectangle() image.Rectangle {
	return image.Rect(m.Left, m.Top, m.Right, m.Bottom)
}

// clamp maps an inclusive-edge point onto the last real pixel of m.
func (m MonitorRect) clamp(x, y int) (int, int) {
	if x >= m.Right && m.Width > 0 {
		x = m.Right - 1
	}
	if y >= m.Bottom && m.Height > 0 {
		y = m.Bottom - 1
	}
	return x, y
}

func (m MonitorRect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", m.Left, m.Top, m.Right, m.Bottom, m.Width, m.Height)
}

// Layout is the monitor list captured at startup. It is never modified
// after construction and may be shared freely between goroutines.
type Layout struct {
	monitors []MonitorRect
}

// NewLayout builds a layout from rects in enumeration order.
func NewLayout(rects ...MonitorRect) Layout {
	return Layout{monitors: append([]MonitorRect(nil), rects...)}
}

// Len is the number of monitors.
func (l Layout) Len() int { return len(l.monitors) }

// Monitors returns a copy of the monitor list.
func (l Layout) Monitors() []MonitorRect {
	return append([]MonitorRect(nil), l.monitors...)
}

// Locate returns the first monitor in enumeration order that contains
// (x, y). A point on an edge shared by two monitors resolves to whichever
// was enumerated first.
func (l Layout) Locate(x, y int) (MonitorRect, bool) {
	for _, m := range l.monitors {
		if m.Contains(x, y) {
			return m, true
		}
	}
	return MonitorRect{}, false
}

// Bounds is the smallest rectangle covering every monitor.
func (l Layout) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, m := range l.monitors {
		b = b.Union(m.Rectangle())
	}
	return b
}
