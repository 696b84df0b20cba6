//go:build darwin

package screen

import "github.com/go-vgo/robotgo"

type robotPointer struct{}

// NewPointer returns the platform cursor reader.
func NewPointer() (Pointer, error) {
	return robotPointer{}, nil
}

func (robotPointer) Position() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

func (robotPointer) Close() error { return nil }
