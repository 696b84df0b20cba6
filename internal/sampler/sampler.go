package sampler

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"time"

	"github.com/hanamizuki10/get-color-for-windows/internal/colorinfo"
	"github.com/hanamizuki10/get-color-for-windows/internal/health"
	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
	"github.com/hanamizuki10/get-color-for-windows/internal/screen"
)

var log = logging.L("sampler")

const (
	DefaultInterval    = 100 * time.Millisecond
	DefaultStopTimeout = 2 * time.Second

	// Health check names reported on every tick.
	CheckPointer = "sampler.pointer"
	CheckLayout  = "sampler.layout"
	CheckCapture = "sampler.capture"

	failureLogEvery = 2 * time.Second
)

// ErrStopTimeout is returned when the sampling goroutine did not exit within
// the stop timeout. It has been cancelled and exits after its current tick.
var ErrStopTimeout = errors.New("sampler did not stop in time")

// Pointer reads the global cursor position.
type Pointer interface {
	Position() (x, y int, err error)
}

// Grabber reads one pixel from a monitor.
type Grabber interface {
	PixelAt(m screen.MonitorRect, x, y int) (color.RGBA, error)
}

// Dispatcher runs a function on the display goroutine. Post must not block.
type Dispatcher interface {
	Post(task func()) bool
}

// View receives samples and state changes, always on the dispatcher.
type View interface {
	Render(Sample)
	SetState(State)
}

type Options struct {
	Interval    time.Duration
	StopTimeout time.Duration
	Health      *health.Monitor
}

// Sampler polls the pointer at a fixed cadence and pushes the color under
// it to a View.
type Sampler struct {
	layout     screen.Layout
	pointer    Pointer
	grabber    Grabber
	dispatcher Dispatcher
	view       View
	health     *health.Monitor

	interval    time.Duration
	stopTimeout time.Duration
	now         func() time.Time

	mu     sync.Mutex // serialises Start/Stop; guards state, cancel, done
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	latestMu sync.RWMutex
	latest   Sample
	hasAny   bool

	failMu       sync.Mutex
	failures     int
	lastFailLog  time.Time
	lastFailKind string
}

// New builds a stopped sampler over a fixed monitor layout. view may be nil
// when only SampleOnce/Latest are used.
func New(layout screen.Layout, pointer Pointer, grabber Grabber, dispatcher Dispatcher, view View, opts Options) *Sampler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	return &Sampler{
		layout:      layout,
		pointer:     pointer,
		grabber:     grabber,
		dispatcher:  dispatcher,
		view:        view,
		health:      opts.Health,
		interval:    opts.Interval,
		stopTimeout: opts.StopTimeout,
		now:         time.Now,
	}
}

// State reports whether the sampling goroutine is active.
func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start launches the sampling goroutine. It returns false when already
// running.
func (s *Sampler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return false
	}
	s.startLocked()
	return true
}

func (s *Sampler) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.state = Running
	go s.loop(ctx, done)

	log.Info("sampler started", logging.KeyState, Running.String(), "interval", s.interval.String(), "monitors", s.layout.Len())
	s.postState(Running)
}

// Stop cancels the sampling goroutine and waits up to the stop timeout for
// it to exit. The sampler is Stopped afterwards even when the wait times out.
// The wait happens without holding the state lock, so State stays readable.
func (s *Sampler) Stop() error {
	s.mu.Lock()
	done := s.stopLocked()
	s.mu.Unlock()
	return s.awaitStop(done)
}

// stopLocked switches to Stopped and returns the channel the old goroutine
// closes on exit, or nil when nothing was running.
func (s *Sampler) stopLocked() chan struct{} {
	if s.state == Stopped {
		return nil
	}

	s.cancel()
	done := s.done
	s.cancel = nil
	s.done = nil
	s.state = Stopped
	s.postState(Stopped)
	return done
}

func (s *Sampler) awaitStop(done chan struct{}) error {
	if done == nil {
		return nil
	}

	timer := time.NewTimer(s.stopTimeout)
	defer timer.Stop()
	select {
	case <-done:
		log.Info("sampler stopped", logging.KeyState, Stopped.String())
		return nil
	case <-timer.C:
		log.Warn("sampler stop timed out", "timeout", s.stopTimeout.String())
		return ErrStopTimeout
	}
}

// Toggle flips between Stopped and Running, the single user action, and
// returns the new state.
func (s *Sampler) Toggle() (State, error) {
	s.mu.Lock()
	if s.state == Running {
		done := s.stopLocked()
		s.mu.Unlock()
		return Stopped, s.awaitStop(done)
	}
	s.startLocked()
	s.mu.Unlock()
	return Running, nil
}

// Close stops sampling unconditionally, as on window close.
func (s *Sampler) Close() error {
	return s.Stop()
}

// Latest returns the most recent sample, if any has been taken.
func (s *Sampler) Latest() (Sample, bool) {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	return s.latest, s.hasAny
}

// Layout returns the monitor snapshot the sampler resolves against.
func (s *Sampler) Layout() screen.Layout {
	return s.layout
}

func (s *Sampler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		sample := s.SampleOnce()
		s.publish(ctx, sample)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// publish hands sample to the view on the dispatcher. A sample computed just
// before a stop is dropped rather than rendered after the stop.
func (s *Sampler) publish(ctx context.Context, sample Sample) {
	if s.view == nil || s.dispatcher == nil || ctx.Err() != nil {
		return
	}
	s.dispatcher.Post(func() {
		if ctx.Err() != nil {
			return
		}
		s.view.Render(sample)
	})
}

func (s *Sampler) postState(st State) {
	if s.view == nil || s.dispatcher == nil {
		return
	}
	s.dispatcher.Post(func() { s.view.SetState(st) })
}

// SampleOnce takes one sample synchronously: read the pointer, resolve its
// monitor, read the pixel. Any failure yields an error sample with the
// fallback color instead of an error.
func (s *Sampler) SampleOnce() Sample {
	at := s.now()

	x, y, err := s.pointer.Position()
	if err != nil {
		s.health.Update(CheckPointer, health.Unhealthy, err.Error())
		s.recordFailure(CheckPointer, err)
		return s.store(errorSample(0, 0, nil, at))
	}
	s.health.Update(CheckPointer, health.Healthy, "")

	m, ok := s.layout.Locate(x, y)
	if !ok {
		s.health.Update(CheckLayout, health.Degraded, "pointer outside every monitor")
		return s.store(errorSample(x, y, nil, at))
	}
	s.health.Update(CheckLayout, health.Healthy, "")

	px, err := s.grabber.PixelAt(m, x, y)
	if err != nil {
		s.health.Update(CheckCapture, health.Unhealthy, err.Error())
		s.recordFailure(CheckCapture, err)
		return s.store(errorSample(x, y, &m, at))
	}
	s.health.Update(CheckCapture, health.Healthy, "")
	s.resetFailures()

	c := colorinfo.FromColor(px)
	named, _ := c.Named()
	return s.store(Sample{
		X:         x,
		Y:         y,
		Monitor:   &m,
		Color:     c,
		ColorText: c.Name(),
		HexText:   c.Hex(),
		Named:     named,
		OK:        true,
		At:        at,
	})
}

func (s *Sampler) store(sample Sample) Sample {
	s.latestMu.Lock()
	s.latest = sample
	s.hasAny = true
	s.latestMu.Unlock()
	return sample
}

// recordFailure logs the first failure and then at most every
// failureLogEvery while the same kind keeps failing.
func (s *Sampler) recordFailure(kind string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	s.failures++
	now := s.now()
	if s.failures == 1 || kind != s.lastFailKind || now.Sub(s.lastFailLog) >= failureLogEvery {
		log.Warn("sample failed", "check", kind, logging.KeyError, err.Error(), "consecutive", s.failures)
		s.lastFailLog = now
		s.lastFailKind = kind
	}
}

func (s *Sampler) resetFailures() {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if s.failures > 0 {
		log.Info("sampling recovered", "after", s.failures)
	}
	s.failures = 0
	s.lastFailKind = ""
}
