package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hanamizuki10/get-color-for-windows/internal/sampler"
)

const (
	CaptionStart = "Start (Enter or Space)"
	CaptionStop  = "Stop (Enter or Space)"
)

// Console renders the sampler's fields as a small text panel: X and Y,
// a color swatch, the color text, the hex code (with the SVG name when the
// pixel matches one) and the start/stop caption.
// It must only be used from the dispatch loop.
type Console struct {
	w       io.Writer
	inPlace bool
	swatch  bool

	state  sampler.State
	last   *sampler.Sample
	drawn  int
	closed bool
}

type ConsoleOption func(*Console)

// WithInPlace redraws over the previous panel using ANSI cursor movement.
func WithInPlace(on bool) ConsoleOption {
	return func(c *Console) { c.inPlace = on }
}

// WithSwatch enables the 24-bit color swatch.
func WithSwatch(on bool) ConsoleOption {
	return func(c *Console) { c.swatch = on }
}

func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{w: w}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTerminal reports whether f is an interactive terminal, which is when
// in-place redraw and the swatch make sense.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) Render(s sampler.Sample) {
	c.last = &s
	c.draw()
}

func (c *Console) SetState(st sampler.State) {
	c.state = st
	c.draw()
}

// Close prints a final newline so the shell prompt starts on a clean line.
func (c *Console) Close() {
	if c.closed {
		return
	}
	c.closed = true
	fmt.Fprintln(c.w)
}

func (c *Console) draw() {
	if c.closed {
		return
	}
	lines := c.lines()

	var b strings.Builder
	if c.inPlace && c.drawn > 0 {
		fmt.Fprintf(&b, "\x1b[%dA\x1b[J", c.drawn)
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	io.WriteString(c.w, b.String())
	c.drawn = len(lines)
}

func (c *Console) lines() []string {
	x, y := "-", "-"
	colorText, hexText := "", ""
	swatch := ""
	if s := c.last; s != nil {
		x, y = fmt.Sprint(s.X), fmt.Sprint(s.Y)
		colorText, hexText = s.ColorText, s.HexText
		if s.Named != "" {
			hexText += "  (" + s.Named + ")"
		}
		if c.swatch {
			swatch = fmt.Sprintf("\x1b[48;2;%d;%d;%dm      \x1b[0m ", s.Color.R, s.Color.G, s.Color.B)
		}
	}

	caption := CaptionStart
	if c.state == sampler.Running {
		caption = CaptionStop
	}

	return []string{
		fmt.Sprintf("X: %-6s Y: %-6s", x, y),
		fmt.Sprintf("%sColor: %s", swatch, colorText),
		fmt.Sprintf("%sHex:   %s", swatch, hexText),
		"[ " + caption + " ]",
	}
}
