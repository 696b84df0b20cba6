package screen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/kbinani/screenshot"
)

// Pointer reads the global cursor position in virtual-desktop coordinates.
type Pointer interface {
	Position() (x, y int, err error)
	Close() error
}

// ScreenGrabber reads single pixels by copying a 1x1 region of the
// framebuffer into an off-screen bitmap.
type ScreenGrabber struct {
	capture func(image.Rectangle) (*image.RGBA, error)
}

func NewScreenGrabber() *ScreenGrabber {
	return &ScreenGrabber{capture: screenshot.CaptureRect}
}

// PixelAt returns the color at (x, y) on monitor m. Points on the inclusive
// right/bottom edge read the monitor's last column/row.
func (g *ScreenGrabber) PixelAt(m MonitorRect, x, y int) (color.RGBA, error) {
	if !m.Contains(x, y) {
		return color.RGBA{}, fmt.Errorf("(%d,%d) on %s: %w", x, y, m, ErrOutsideMonitor)
	}
	px, py := m.clamp(x, y)

	img, err := g.capture(image.Rect(px, py, px+1, py+1))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("capture pixel (%d,%d): %w", px, py, err)
	}
	if img == nil || img.Bounds().Empty() {
		return color.RGBA{}, ErrEmptyCapture
	}

	b := img.Bounds()
	c := img.RGBAAt(b.Min.X, b.Min.Y)
	// Desktop composition can leave alpha at zero; a screen pixel is opaque.
	c.A = 0xff
	return c, nil
}
