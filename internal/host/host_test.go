package host

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/winhost/internal/backing"
	"github.com/1broseidon/winhost/internal/geom"
	"github.com/1broseidon/winhost/internal/sched"
)

const testPollPeriod = 10 * time.Millisecond

var testInsets = geom.Insets{Left: 4, Top: 28, Right: 4, Bottom: 4}

// recorder collects delivered events and can be told to panic inside a
// specific callback.
type recorder struct {
	events  []EventType
	moved   []geom.Rect
	resized []geom.Rect
	panicOn map[EventType]bool
}

func (r *recorder) add(t EventType) {
	r.events = append(r.events, t)
	if r.panicOn[t] {
		panic("listener failure in " + t.String())
	}
}

func (r *recorder) OnWindowShown()       { r.add(EventShown) }
func (r *recorder) OnWindowHidden()      { r.add(EventHidden) }
func (r *recorder) OnWindowFocusGained() { r.add(EventFocusGained) }
func (r *recorder) OnWindowFocusLost()   { r.add(EventFocusLost) }
func (r *recorder) OnWindowIconified()   { r.add(EventIconified) }
func (r *recorder) OnWindowDeiconified() { r.add(EventDeiconified) }
func (r *recorder) OnWindowMaximized()   { r.add(EventMaximized) }
func (r *recorder) OnWindowDemaximized() { r.add(EventDemaximized) }
func (r *recorder) OnWindowClosed()      { r.add(EventClosed) }
func (r *recorder) OnWindowMoved(c geom.Rect) {
	r.moved = append(r.moved, c)
	r.add(EventMoved)
}
func (r *recorder) OnWindowResized(c geom.Rect) {
	r.resized = append(r.resized, c)
	r.add(EventResized)
}

func (r *recorder) types() []EventType {
	return r.events
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires one simulated host onto a manual scheduler with zero
// stability delays unless the test overrides them.
type fixture struct {
	t   *testing.T
	m   *sched.Manual
	reg *Registry
	sim *backing.Sim
	h   *Host
	rec *recorder
}

func defaultTestOptions() Options {
	return Options{
		PollPeriod:    testPollPeriod,
		DefaultBounds: geom.Rect{X: 100, Y: 200, Width: 300, Height: 400},
		BoundsTarget:  BoundsClient,
		Logger:        testLogger(),
	}
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	m := sched.NewManual()
	reg := NewRegistry(m, opts)
	f := &fixture{t: t, m: m, reg: reg}
	f.sim, f.h, f.rec = f.addHost()
	return f
}

func (f *fixture) addHost() (*backing.Sim, *Host, *recorder) {
	f.t.Helper()
	sim := backing.NewSim(testInsets)
	rec := &recorder{panicOn: make(map[EventType]bool)}
	h, err := f.reg.CreateHost(HostOptions{Backing: sim, Listener: rec})
	if err != nil {
		f.t.Fatalf("create host: %v", err)
	}
	sim.Attach(h)
	f.m.RunReady()
	return sim, h, rec
}

// tick advances one event logic period, draining every registered host.
func (f *fixture) tick() {
	f.m.Advance(testPollPeriod)
}

func (f *fixture) expectEvents(rec *recorder, want ...EventType) {
	f.t.Helper()
	got := rec.types()
	if len(got) != len(want) {
		f.t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			f.t.Fatalf("expected events %v, got %v", want, got)
		}
	}
}

// showAndSettle brings the fixture host into confirmed showing state and
// clears the recorder.
func (f *fixture) showAndSettle() {
	f.t.Helper()
	f.h.Show()
	f.sim.ConfirmShown()
	f.tick()
	if !f.h.IsShowing() {
		f.t.Fatalf("host did not reach showing state")
	}
	f.rec.events = nil
}

func TestShowDeliversExactlyOneShownEvent(t *testing.T) {
	f := newFixture(t, defaultTestOptions())

	want := geom.Rect{X: 100, Y: 200, Width: 300, Height: 400}
	if got := f.h.ClientBounds(); !got.Eq(want) {
		t.Fatalf("expected default client bounds %+v, got %+v", want, got)
	}
	if f.h.IsShowing() {
		t.Fatalf("host showing before any command")
	}

	f.h.Show()
	if len(f.sim.Commands()) == 0 || f.sim.Commands()[len(f.sim.Commands())-1] != "show" {
		t.Fatalf("show command not issued, commands: %v", f.sim.Commands())
	}
	if len(f.rec.events) != 0 {
		t.Fatalf("show fired synchronous events: %v", f.rec.events)
	}

	f.sim.ConfirmShown()
	f.tick()
	f.tick()

	f.expectEvents(f.rec, EventShown)
	if !f.h.IsShowing() {
		t.Fatalf("expected isShowing true after confirmed show")
	}
}

func TestMovePendingArmsAndClearsExactlyOnce(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.showAndSettle()

	want := f.h.ClientBounds().WithPosDeltas(2, 0)
	f.h.SetClientBounds(want)
	if f.h.MovedPending() {
		t.Fatalf("moved pending armed before backing confirmation")
	}

	f.sim.ConfirmMoved()
	if !f.h.MovedPending() {
		t.Fatalf("moved pending not armed by confirmed move")
	}

	f.tick()
	f.expectEvents(f.rec, EventMoved)
	if f.h.MovedPending() {
		t.Fatalf("moved pending still set after delivery")
	}
	if len(f.rec.moved) != 1 || !f.rec.moved[0].Eq(want) {
		t.Fatalf("expected moved payload %+v, got %+v", want, f.rec.moved)
	}
	if got := f.h.ClientBounds(); !got.Eq(want) {
		t.Fatalf("expected client bounds %+v, got %+v", want, got)
	}

	// An echo without a distinct change must not re-arm.
	f.sim.ConfirmMoved()
	if f.h.MovedPending() {
		t.Fatalf("moved pending re-armed without a distinct change")
	}
	f.tick()
	f.expectEvents(f.rec, EventMoved)
}

func TestCloseOnFocusedHostFiresToolkitTail(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.showAndSettle()
	f.sim.ConfirmFocusGained()
	f.tick()
	f.rec.events = nil

	f.h.Close()
	f.tick()

	f.expectEvents(f.rec, EventFocusLost, EventHidden, EventClosed)
	if !f.h.IsClosed() {
		t.Fatalf("expected isClosed true after Closed delivery")
	}
	if f.h.IsShowing() || f.h.IsFocused() {
		t.Fatalf("shadow state not cleared by closing tail")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.showAndSettle()

	f.h.Close()
	f.h.Close()
	f.tick()
	f.h.Close()
	f.tick()

	f.expectEvents(f.rec, EventHidden, EventClosed)
}

func TestNoEventAfterClosed(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.showAndSettle()
	f.h.Close()
	f.tick()
	f.rec.events = nil

	// Late notifications and commands must all be dropped.
	f.h.Show()
	f.h.Maximize()
	f.h.OnBackingWindowShown()
	f.h.OnBackingWindowFocusGained()
	f.h.OnBackingWindowMoved()
	f.tick()
	f.tick()

	f.expectEvents(f.rec)
}

func TestCanonicalFiringOrderWithinOneDrain(t *testing.T) {
	f := newFixture(t, defaultTestOptions())

	// Arm everything before a single drain runs.
	f.h.Show()
	f.sim.ConfirmShown()
	f.sim.ConfirmFocusGained()
	f.sim.ConfirmMaximized()
	f.sim.SetWindowBounds(geom.Rect{X: 10, Y: 20, Width: 500, Height: 600})
	f.sim.ConfirmMoved()
	f.sim.ConfirmResized()

	f.tick()

	f.expectEvents(f.rec, EventShown, EventFocusGained, EventMaximized, EventMoved, EventResized)
}

func TestPlatformInitiatedClosing(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.showAndSettle()

	// User hit the close button: the platform reports closing on its own.
	f.sim.ConfirmClosing()
	f.tick()

	f.expectEvents(f.rec, EventHidden, EventClosed)
	if got := f.h.ClientBounds(); !got.IsEmpty() {
		t.Fatalf("expected empty sentinel after platform closure, got %+v", got)
	}
}

func TestAntiFlickerCoalescesIconifyEcho(t *testing.T) {
	opts := defaultTestOptions()
	opts.AntiFlicker = 100 * time.Millisecond
	f := newFixture(t, opts)
	f.showAndSettle()

	// Iconify echo during one user gesture: on, off, on again.
	f.sim.ConfirmIconified()
	f.m.Advance(50 * time.Millisecond)
	if len(f.rec.events) != 0 {
		t.Fatalf("iconified fired before stability window elapsed: %v", f.rec.events)
	}
	f.sim.ConfirmDeiconified()
	f.m.Advance(50 * time.Millisecond)
	f.sim.ConfirmIconified()
	f.m.Advance(100 * time.Millisecond)

	f.expectEvents(f.rec, EventIconified)
	if !f.h.IsIconified() {
		t.Fatalf("expected iconified state after settling")
	}
}

func TestIconifyToggleWithinWindowFiresNothing(t *testing.T) {
	opts := defaultTestOptions()
	opts.AntiFlicker = 100 * time.Millisecond
	f := newFixture(t, opts)
	f.showAndSettle()

	f.sim.ConfirmIconified()
	f.m.Advance(50 * time.Millisecond)
	f.sim.ConfirmDeiconified()
	f.m.Advance(200 * time.Millisecond)

	f.expectEvents(f.rec)
}

func TestHiddenStabilityDelaysHiddenDelivery(t *testing.T) {
	opts := defaultTestOptions()
	opts.HiddenStability = 200 * time.Millisecond
	f := newFixture(t, opts)
	f.showAndSettle()

	f.h.Hide()
	f.sim.ConfirmHidden()
	f.m.Advance(100 * time.Millisecond)
	if len(f.rec.events) != 0 {
		t.Fatalf("hidden fired before stability window elapsed: %v", f.rec.events)
	}
	f.m.Advance(150 * time.Millisecond)

	f.expectEvents(f.rec, EventHidden)
	if f.h.IsShowing() {
		t.Fatalf("expected isShowing false after hidden delivery")
	}
}

func TestCloseBypassesStabilityDelays(t *testing.T) {
	opts := defaultTestOptions()
	opts.StateStability = time.Hour
	opts.HiddenStability = time.Hour
	opts.AntiFlicker = time.Hour
	f := newFixture(t, opts)

	f.h.Show()
	f.sim.ConfirmShown()
	f.m.Advance(time.Second)
	if len(f.rec.events) != 0 {
		t.Fatalf("shown fired under an hour-long delay: %v", f.rec.events)
	}

	// Closure must not be held hostage by stability windows.
	f.h.Close()
	f.tick()
	f.expectEvents(f.rec, EventClosed)
}

func TestListenerPanicIsolatedAcrossHosts(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	sim2, h2, rec2 := f.addHost()

	f.rec.panicOn[EventFocusGained] = true

	f.h.Show()
	f.sim.ConfirmShown()
	f.sim.ConfirmFocusGained()
	h2.Show()
	sim2.ConfirmShown()

	f.tick()

	// The panicking host still got its own earlier event and the sibling
	// was not disturbed.
	f.expectEvents(f.rec, EventShown, EventFocusGained)
	f.expectEvents(rec2, EventShown)

	// Later events for the panicking host keep flowing.
	f.sim.SetWindowBounds(geom.Rect{X: 50, Y: 60, Width: 308, Height: 432})
	f.sim.ConfirmMoved()
	f.tick()
	f.expectEvents(f.rec, EventShown, EventFocusGained, EventMoved)
}

func TestRepanicPolicyDefersRemainingEventsOneTick(t *testing.T) {
	opts := defaultTestOptions()
	opts.PanicPolicy = PanicRepanic
	f := newFixture(t, opts)
	sim2, h2, rec2 := f.addHost()

	f.rec.panicOn[EventShown] = true

	f.h.Show()
	f.sim.ConfirmShown()
	f.sim.ConfirmFocusGained()
	h2.Show()
	sim2.ConfirmShown()

	f.tick()

	// The drain unit aborted after Shown; the sibling's unit ran anyway.
	f.expectEvents(f.rec, EventShown)
	f.expectEvents(rec2, EventShown)

	f.rec.panicOn[EventShown] = false
	f.tick()
	f.expectEvents(f.rec, EventShown, EventFocusGained)
}

func TestRepanicDoesNotLoseClosedEvent(t *testing.T) {
	opts := defaultTestOptions()
	opts.PanicPolicy = PanicRepanic
	f := newFixture(t, opts)
	f.showAndSettle()

	f.rec.panicOn[EventHidden] = true
	f.h.Close()
	f.tick()
	f.expectEvents(f.rec, EventHidden)

	f.tick()
	f.expectEvents(f.rec, EventHidden, EventClosed)
}

func TestReentrantAccessorSeesPostEventState(t *testing.T) {
	m := sched.NewManual()
	reg := NewRegistry(m, defaultTestOptions())

	sim := backing.NewSim(testInsets)
	var h *Host
	var sawShowing bool
	l := &funcListener{
		recorder: recorder{panicOn: map[EventType]bool{}},
		onShown: func() {
			sawShowing = h.IsShowing()
		},
	}
	var err error
	h, err = reg.CreateHost(HostOptions{Backing: sim, Listener: l})
	if err != nil {
		t.Fatalf("create host: %v", err)
	}
	sim.Attach(h)
	m.RunReady()

	h.Show()
	sim.ConfirmShown()
	m.Advance(testPollPeriod)

	if !sawShowing {
		t.Fatalf("listener observed pre-event state during OnWindowShown")
	}
}

// funcListener lets one callback be overridden while recording everything.
type funcListener struct {
	recorder
	onShown func()
}

func (l *funcListener) OnWindowShown() {
	l.recorder.OnWindowShown()
	if l.onShown != nil {
		l.onShown()
	}
}

func TestDeiconifyRestoresBaselineBounds(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.sim.AutoConfirm = true
	f.h.Show()
	f.tick()

	baseline := f.h.ClientBounds()

	f.h.Maximize()
	f.sim.SetWindowBounds(geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
	f.tick()
	if !f.h.IsMaximized() {
		t.Fatalf("host did not reach maximized state")
	}

	f.h.Demaximize()
	f.tick()

	if got := f.h.ClientBounds(); !got.Eq(baseline) {
		t.Fatalf("expected baseline bounds %+v restored, got %+v", baseline, got)
	}
}

func TestResizedPendingDistinctChangeOnly(t *testing.T) {
	f := newFixture(t, defaultTestOptions())
	f.showAndSettle()

	// A move alone must not arm resized.
	f.sim.SetWindowBounds(f.h.WindowBounds().WithPosDeltas(10, 10))
	f.sim.ConfirmMoved()
	f.sim.ConfirmResized()
	if f.h.ResizedPending() {
		t.Fatalf("resized pending armed by a pure move")
	}

	f.sim.SetWindowBounds(f.h.WindowBounds().WithSizeDeltas(20, 0))
	f.sim.ConfirmResized()
	if !f.h.ResizedPending() {
		t.Fatalf("resized pending not armed by a size change")
	}

	f.tick()
	want := geom.Rect{X: 110, Y: 210, Width: 320, Height: 400}
	if len(f.rec.resized) != 1 || !f.rec.resized[0].Eq(want) {
		t.Fatalf("expected resized payload %+v, got %+v", want, f.rec.resized)
	}
}
