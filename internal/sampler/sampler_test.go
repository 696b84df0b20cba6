package sampler

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hanamizuki10/get-color-for-windows/internal/colorinfo"
	"github.com/hanamizuki10/get-color-for-windows/internal/health"
	"github.com/hanamizuki10/get-color-for-windows/internal/screen"
)

type fakePointer struct {
	mu   sync.Mutex
	x, y int
	err  error
	hits atomic.Int32
}

func (p *fakePointer) Position() (int, int, error) {
	p.hits.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y, p.err
}

func (p *fakePointer) move(x, y int) {
	p.mu.Lock()
	p.x, p.y = x, y
	p.mu.Unlock()
}

type fakeGrabber struct {
	c   color.RGBA
	err error
	got []screen.MonitorRect
	mu  sync.Mutex
}

func (g *fakeGrabber) PixelAt(m screen.MonitorRect, x, y int) (color.RGBA, error) {
	g.mu.Lock()
	g.got = append(g.got, m)
	g.mu.Unlock()
	return g.c, g.err
}

// inlineDispatcher runs tasks immediately on the posting goroutine.
type inlineDispatcher struct{}

func (inlineDispatcher) Post(task func()) bool {
	task()
	return true
}

type recordingView struct {
	mu      sync.Mutex
	samples []Sample
	states  []State
}

func (v *recordingView) Render(s Sample) {
	v.mu.Lock()
	v.samples = append(v.samples, s)
	v.mu.Unlock()
}

func (v *recordingView) SetState(st State) {
	v.mu.Lock()
	v.states = append(v.states, st)
	v.mu.Unlock()
}

func (v *recordingView) counts() (int, []State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.samples), append([]State(nil), v.states...)
}

var (
	primary   = screen.NewMonitorRect(image.Rect(0, 0, 1920, 1080))
	secondary = screen.NewMonitorRect(image.Rect(1920, 0, 3840, 1080))
)

func newTestSampler(p *fakePointer, g *fakeGrabber, v View, hm *health.Monitor) *Sampler {
	return New(screen.NewLayout(primary, secondary), p, g, inlineDispatcher{}, v, Options{
		Interval:    5 * time.Millisecond,
		StopTimeout: time.Second,
		Health:      hm,
	})
}

func TestSampleOnceInsideMonitor(t *testing.T) {
	p := &fakePointer{x: 2000, y: 10}
	g := &fakeGrabber{c: color.RGBA{R: 255, G: 0, B: 128, A: 255}}
	s := newTestSampler(p, g, nil, nil)

	got := s.SampleOnce()
	if !got.OK {
		t.Fatalf("expected OK sample, got %+v", got)
	}
	if got.Monitor == nil || *got.Monitor != secondary {
		t.Fatalf("Monitor = %v, want %v", got.Monitor, secondary)
	}
	if got.HexText != "#FF0080" {
		t.Fatalf("HexText = %q, want #FF0080", got.HexText)
	}
	if got.ColorText != "Color [A=255, R=255, G=0, B=128]" {
		t.Fatalf("ColorText = %q", got.ColorText)
	}
	if len(g.got) != 1 || g.got[0] != secondary {
		t.Fatalf("grabber asked for %v", g.got)
	}

	latest, ok := s.Latest()
	if !ok || latest.HexText != "#FF0080" {
		t.Fatalf("Latest() = %+v, %v", latest, ok)
	}
}

func TestSampleOnceNamedColorKeepsARGBText(t *testing.T) {
	p := &fakePointer{x: 10, y: 10}
	g := &fakeGrabber{c: color.RGBA{A: 255}}
	s := newTestSampler(p, g, nil, nil)

	got := s.SampleOnce()
	if got.ColorText != "Color [A=255, R=0, G=0, B=0]" {
		t.Fatalf("ColorText = %q", got.ColorText)
	}
	if got.Named != "black" {
		t.Fatalf("Named = %q, want black", got.Named)
	}

	g.c = color.RGBA{R: 255, G: 0, B: 128, A: 255}
	if got := s.SampleOnce(); got.Named != "" {
		t.Fatalf("Named = %q for an unnamed color", got.Named)
	}
}

func TestSampleOnceOutsideEveryMonitor(t *testing.T) {
	p := &fakePointer{x: -50, y: 10}
	g := &fakeGrabber{c: color.RGBA{R: 1, G: 2, B: 3, A: 255}}
	hm := health.NewMonitor()
	s := newTestSampler(p, g, nil, hm)

	got := s.SampleOnce()
	if got.OK {
		t.Fatal("sample outside every monitor should not be OK")
	}
	if got.Color != colorinfo.Black {
		t.Fatalf("Color = %v, want black", got.Color)
	}
	if got.ColorText != colorinfo.ErrorText || got.HexText != colorinfo.ErrorText {
		t.Fatalf("texts = %q / %q, want error text", got.ColorText, got.HexText)
	}
	if got.X != -50 || got.Y != 10 {
		t.Fatalf("coordinates = (%d,%d), want (-50,10)", got.X, got.Y)
	}
	if len(g.got) != 0 {
		t.Fatal("grabber should not be called when no monitor matches")
	}
	if hm.Overall() != health.Degraded {
		t.Fatalf("health = %q, want degraded", hm.Overall())
	}
}

func TestSampleOnceSharedEdgeUsesFirstMonitor(t *testing.T) {
	p := &fakePointer{x: 1920, y: 500}
	g := &fakeGrabber{}
	s := newTestSampler(p, g, nil, nil)

	got := s.SampleOnce()
	if got.Monitor == nil || *got.Monitor != primary {
		t.Fatalf("edge point resolved to %v, want primary", got.Monitor)
	}
}

func TestSampleOnceFailuresYieldErrorSample(t *testing.T) {
	hm := health.NewMonitor()

	s := newTestSampler(&fakePointer{err: errors.New("no display")}, &fakeGrabber{}, nil, hm)
	if got := s.SampleOnce(); got.OK || got.HexText != colorinfo.ErrorText {
		t.Fatalf("pointer failure sample = %+v", got)
	}
	if c, _ := checkStatus(hm, CheckPointer); c.Status != health.Unhealthy {
		t.Fatalf("pointer check = %q, want unhealthy", c.Status)
	}

	hm = health.NewMonitor()
	s = newTestSampler(&fakePointer{x: 5, y: 5}, &fakeGrabber{err: errors.New("BitBlt failed")}, nil, hm)
	got := s.SampleOnce()
	if got.OK || got.Color != colorinfo.Black {
		t.Fatalf("capture failure sample = %+v", got)
	}
	if got.Monitor == nil || *got.Monitor != primary {
		t.Fatal("capture failure should still report the resolved monitor")
	}
	if c, _ := checkStatus(hm, CheckCapture); c.Status != health.Unhealthy {
		t.Fatalf("capture check = %q, want unhealthy", c.Status)
	}
}

func TestStartRendersOnDispatcher(t *testing.T) {
	p := &fakePointer{x: 10, y: 10}
	v := &recordingView{}
	s := newTestSampler(p, &fakeGrabber{c: color.RGBA{A: 255}}, v, nil)

	if !s.Start() {
		t.Fatal("Start should succeed from stopped")
	}
	if s.Start() {
		t.Fatal("second Start should report already running")
	}
	waitFor(t, func() bool { n, _ := v.counts(); return n >= 3 })

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	_, states := v.counts()
	if len(states) != 2 || states[0] != Running || states[1] != Stopped {
		t.Fatalf("states = %v, want [running stopped]", states)
	}
}

func TestToggleTwiceLeavesNoGoroutine(t *testing.T) {
	p := &fakePointer{x: 10, y: 10}
	v := &recordingView{}
	s := newTestSampler(p, &fakeGrabber{}, v, nil)

	before := runtime.NumGoroutine()

	st, err := s.Toggle()
	if err != nil || st != Running || s.State() != Running {
		t.Fatalf("first Toggle = %v, %v", st, err)
	}
	waitFor(t, func() bool { return p.hits.Load() > 0 })

	st, err = s.Toggle()
	if err != nil || st != Stopped || s.State() != Stopped {
		t.Fatalf("second Toggle = %v, %v", st, err)
	}

	// The goroutine has exited once Stop returns nil; no more reads happen.
	hits := p.hits.Load()
	time.Sleep(30 * time.Millisecond)
	if p.hits.Load() != hits {
		t.Fatal("pointer still polled after stop")
	}
	waitFor(t, func() bool { return runtime.NumGoroutine() <= before })
}

func TestStopWhenStoppedIsNoop(t *testing.T) {
	s := newTestSampler(&fakePointer{}, &fakeGrabber{}, nil, nil)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop on stopped sampler: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close on stopped sampler: %v", err)
	}
}

type slowPointer struct{ release chan struct{} }

func (p *slowPointer) Position() (int, int, error) {
	<-p.release
	return 1, 1, nil
}

func TestStopTimesOutOnStuckTick(t *testing.T) {
	p := &slowPointer{release: make(chan struct{})}
	s := New(screen.NewLayout(primary), p, &fakeGrabber{}, inlineDispatcher{}, nil, Options{
		Interval:    time.Millisecond,
		StopTimeout: 20 * time.Millisecond,
	})
	s.Start()

	if err := s.Close(); !errors.Is(err, ErrStopTimeout) {
		t.Fatalf("Close() = %v, want ErrStopTimeout", err)
	}
	if s.State() != Stopped {
		t.Fatal("sampler should be stopped even after a timed-out wait")
	}
	close(p.release)
}

func TestStateReadableWhileStopWaits(t *testing.T) {
	p := &slowPointer{release: make(chan struct{})}
	defer close(p.release)
	s := New(screen.NewLayout(primary), p, &fakeGrabber{}, inlineDispatcher{}, nil, Options{
		Interval:    time.Millisecond,
		StopTimeout: time.Second,
	})
	s.Start()

	stopped := make(chan error, 1)
	go func() {
		_, err := s.Toggle()
		stopped <- err
	}()

	got := make(chan State, 1)
	go func() {
		// Wait until the toggle has switched state, then read it again.
		for s.State() == Running {
			time.Sleep(time.Millisecond)
		}
		got <- s.State()
	}()

	select {
	case st := <-got:
		if st != Stopped {
			t.Fatalf("State() = %v during stop wait, want stopped", st)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("State() blocked while the stop was waiting for the goroutine")
	}

	select {
	case err := <-stopped:
		t.Fatalf("Toggle returned %v before the stuck tick was released", err)
	default:
	}
}

func TestSampleAfterStopIsNotRendered(t *testing.T) {
	p := &fakePointer{x: 10, y: 10}
	v := &recordingView{}
	s := newTestSampler(p, &fakeGrabber{}, v, nil)

	s.Start()
	waitFor(t, func() bool { n, _ := v.counts(); return n > 0 })
	s.Stop()

	n, _ := v.counts()
	p.move(20, 20)
	time.Sleep(20 * time.Millisecond)
	if m, _ := v.counts(); m != n {
		t.Fatalf("rendered %d samples after stop", m-n)
	}
}

func TestStateString(t *testing.T) {
	if Stopped.String() != "stopped" || Running.String() != "running" {
		t.Fatal("unexpected state names")
	}
	b, _ := Running.MarshalText()
	if string(b) != "running" {
		t.Fatalf("MarshalText = %q", b)
	}
	var st State
	if err := st.UnmarshalText([]byte("running")); err != nil || st != Running {
		t.Fatalf("UnmarshalText = %v, %v", st, err)
	}
	if err := st.UnmarshalText([]byte("paused")); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func checkStatus(hm *health.Monitor, name string) (health.Check, bool) {
	for _, c := range hm.All() {
		if c.Name == name {
			return c, true
		}
	}
	return health.Check{}, false
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
