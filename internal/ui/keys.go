package ui

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Action is what a line of keyboard input asks for.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionQuit
)

// ParseLine maps one line of input to an action. The terminal is line
// buffered, so Enter alone or Space then Enter both arrive as a blank line.
func ParseLine(line string) Action {
	trimmed := strings.TrimSpace(line)
	switch strings.ToLower(trimmed) {
	case "":
		return ActionToggle
	case "q", "quit", "exit":
		return ActionQuit
	default:
		return ActionNone
	}
}

// ReadKeys reads r line by line and calls toggle or quit until the context
// ends, quit is requested or r is exhausted. End of input is not a quit, so
// a detached stdin leaves the sampler running until a signal arrives.
// A blocked read cannot be interrupted; on cancellation the reading
// goroutine is abandoned.
func ReadKeys(ctx context.Context, r io.Reader, toggle, quit func()) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			switch ParseLine(line) {
			case ActionToggle:
				toggle()
			case ActionQuit:
				quit()
				return nil
			}
		}
	}
}
