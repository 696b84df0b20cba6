//go:build !windows

package screen

// EnablePerMonitorDPI is a no-op outside Windows; X11 and Quartz already
// report physical coordinates to this process.
func EnablePerMonitorDPI() error { return nil }
