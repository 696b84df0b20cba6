package screen

import (
	"github.com/kbinani/screenshot"

	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
)

var log = logging.L("screen")

// Platform hooks, replaced in tests.
var (
	activeDisplays = screenshot.NumActiveDisplays
	displayBounds  = screenshot.GetDisplayBounds
)

// Enumerate queries the platform for every active display once and returns
// them in enumeration order. Call after EnablePerMonitorDPI so the bounds
// are in physical pixels.
func Enumerate() (Layout, error) {
	n := activeDisplays()
	if n <= 0 {
		return Layout{}, ErrNoDisplays
	}

	rects := make([]MonitorRect, 0, n)
	for i := 0; i < n; i++ {
		m := NewMonitorRect(displayBounds(i))
		if m.Width == 0 || m.Height == 0 {
			log.Warn("skipping display with empty bounds", "index", i)
			continue
		}
		log.Debug("display found", "index", i, logging.KeyMonitor, m.String())
		rects = append(rects, m)
	}
	if len(rects) == 0 {
		return Layout{}, ErrNoDisplays
	}
	return NewLayout(rects...), nil
}
