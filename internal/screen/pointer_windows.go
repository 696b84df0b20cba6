//go:build windows

package screen

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetCursorPos                  = user32.NewProc("GetCursorPos")
	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDPIAware            = user32.NewProc("SetProcessDPIAware")
)

type point struct {
	X int32
	Y int32
}

// cursorPointer reads the cursor with GetCursorPos. Coordinates are physical
// pixels once the process is per-monitor DPI aware.
type cursorPointer struct{}

// NewPointer returns the platform cursor reader.
func NewPointer() (Pointer, error) {
	if err := procGetCursorPos.Find(); err != nil {
		return nil, fmt.Errorf("GetCursorPos: %w", err)
	}
	return cursorPointer{}, nil
}

func (cursorPointer) Position() (int, int, error) {
	var pt point
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos: %w", err)
	}
	return int(pt.X), int(pt.Y), nil
}

func (cursorPointer) Close() error { return nil }
