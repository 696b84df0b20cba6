package screen

import "errors"

var (
	// ErrNoDisplays is returned when the platform reports no active display.
	ErrNoDisplays = errors.New("no active displays")

	// ErrOutsideMonitor is returned when a point is not within the monitor it
	// was resolved against.
	ErrOutsideMonitor = errors.New("point outside monitor")

	// ErrEmptyCapture is returned when a capture produced no pixels.
	ErrEmptyCapture = errors.New("capture returned an empty image")

	// ErrNotSupported is returned where pointer access is unavailable.
	ErrNotSupported = errors.New("cursor position not supported on this platform")
)
