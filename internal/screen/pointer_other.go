//go:build !windows && !linux && !darwin

package screen

// NewPointer returns ErrNotSupported on platforms without a cursor reader.
func NewPointer() (Pointer, error) {
	return nil, ErrNotSupported
}
