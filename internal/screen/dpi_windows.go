//go:build windows

package screen

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is (HANDLE)-4.
var dpiAwarenessPerMonitorV2 = ^uintptr(3)

// EnablePerMonitorDPI declares the process per-monitor DPI aware so that
// monitor bounds, cursor coordinates and captured pixels agree. It must run
// before any window or DC is created. Falls back to system awareness on
// Windows versions without SetProcessDpiAwarenessContext.
func EnablePerMonitorDPI() error {
	if procSetProcessDpiAwarenessContext.Find() == nil {
		r, _, err := procSetProcessDpiAwarenessContext.Call(dpiAwarenessPerMonitorV2)
		if r != 0 {
			return nil
		}
		// Already set by the manifest or an earlier call.
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return nil
		}
		log.Warn("SetProcessDpiAwarenessContext failed, falling back", "error", err)
	}

	if procSetProcessDPIAware.Find() == nil {
		if r, _, err := procSetProcessDPIAware.Call(); r == 0 {
			return fmt.Errorf("SetProcessDPIAware: %w", err)
		}
		return nil
	}
	return errors.New("no DPI awareness API available")
}
