package host

import (
	"log/slog"
	"time"

	"github.com/1broseidon/winhost/internal/backing"
	"github.com/1broseidon/winhost/internal/geom"
)

// Host is the engine's representation of one on-screen window. All methods
// must run on the scheduler thread.
//
// Commands issue raw backing operations and return without firing client
// events; backing notifications confirm what actually happened and arm
// pending deliveries, which the event logic process drains in canonical
// order. Every host ends in exactly one Closed event.
type Host struct {
	id      uint64
	backing backing.Window
	owner   *Host
	bounds  *BoundsHelper
	client  *clientWrapper
	logger  *slog.Logger
	reg     *Registry

	stateStability  time.Duration
	hiddenStability time.Duration
	antiFlicker     time.Duration

	closing       bool
	pendingClosed bool
	// Synthesized closing tail, delivered immediately before Closed in
	// toolkit order: focus lost, then hidden.
	closeFocusLost bool
	closeHidden    bool

	axes [axisCount]axisState

	movedPending   bool
	resizedPending bool
	// lastClient is the client rect at the most recent Moved/Resized
	// delivery; arming compares against it so only distinct changes re-arm.
	lastClient geom.Rect
	// baseline is the last plain-showing client rect, restored when the
	// window leaves iconified or maximized state.
	baseline geom.Rect
}

// Lifecycle axes. Focused, iconified and maximized are independent booleans
// over the visible base; defensive combinations the backing system would
// normally never report are tolerated.
type axisKind int

const (
	axisVisible axisKind = iota
	axisFocused
	axisIconified
	axisMaximized
	axisCount
)

// axisState tracks one boolean axis through the stability window.
// confirmed is what the client has been told; backing is the latest
// platform report; since is when backing last flipped. immediate marks
// synthesized transitions that bypass the stability delay.
type axisState struct {
	confirmed bool
	backing   bool
	since     time.Time
	immediate bool
}

// ID returns the registry-assigned host identity used in diagnostics.
func (h *Host) ID() uint64 {
	return h.id
}

// Owner returns the owning host, or nil for top-level windows.
func (h *Host) Owner() *Host {
	return h.owner
}

// Decorated reports whether the backing window carries a frame.
func (h *Host) Decorated() bool {
	return h.backing.Decorated()
}

// Bounds returns the host's bounds helper.
func (h *Host) Bounds() *BoundsHelper {
	return h.bounds
}

// Accessors reflect the listener-visible shadow state, so a query made from
// inside a callback observes post-event values.

func (h *Host) IsShowing() bool   { return h.client.showing }
func (h *Host) IsFocused() bool   { return h.client.focused }
func (h *Host) IsIconified() bool { return h.client.iconified }
func (h *Host) IsMaximized() bool { return h.client.maximized }
func (h *Host) IsClosed() bool    { return h.client.closed }

// MovedPending reports whether a confirmed move still awaits delivery.
func (h *Host) MovedPending() bool { return h.client.movedPending }

// ResizedPending reports whether a confirmed resize still awaits delivery.
func (h *Host) ResizedPending() bool { return h.client.resizedPending }

// ClientBounds returns the client rectangle, or the empty sentinel once the
// backing window is closed.
func (h *Host) ClientBounds() geom.Rect {
	return h.bounds.ClientBounds()
}

// WindowBounds returns the window rectangle, or the empty sentinel once the
// backing window is closed.
func (h *Host) WindowBounds() geom.Rect {
	return h.bounds.WindowBounds()
}

// Insets returns the frame spans separating window from client bounds.
func (h *Host) Insets() geom.Insets {
	return h.bounds.Insets()
}

// blocked reports whether commands should be dropped: the host is closed or
// already on its way out.
func (h *Host) blocked() bool {
	return h.closing || h.client.closed
}

// Show requests the backing window be mapped. No synchronous client event;
// the Shown delivery follows backing confirmation.
func (h *Host) Show() {
	if h.blocked() {
		return
	}
	h.backing.Show()
}

// Hide requests the backing window be unmapped.
func (h *Host) Hide() {
	if h.blocked() {
		return
	}
	h.backing.Hide()
}

// RequestFocusGain asks the window system to focus this window.
func (h *Host) RequestFocusGain() {
	if h.blocked() {
		return
	}
	h.backing.FocusGain()
}

// RequestFocusLoss asks the window system to drop focus from this window.
func (h *Host) RequestFocusLoss() {
	if h.blocked() {
		return
	}
	h.backing.FocusLoss()
}

// Iconify requests minimization.
func (h *Host) Iconify() {
	if h.blocked() {
		return
	}
	h.backing.SetIconified(true)
}

// Deiconify requests restoration from minimized state.
func (h *Host) Deiconify() {
	if h.blocked() {
		return
	}
	h.backing.SetIconified(false)
}

// Maximize requests maximization.
func (h *Host) Maximize() {
	if h.blocked() {
		return
	}
	h.backing.SetMaximized(true)
}

// Demaximize requests restoration from maximized state.
func (h *Host) Demaximize() {
	if h.blocked() {
		return
	}
	h.backing.SetMaximized(false)
}

// SetClientBounds moves/resizes the client area. No-op once closed.
func (h *Host) SetClientBounds(r geom.Rect) {
	if h.blocked() {
		return
	}
	h.bounds.SetClientBounds(r)
}

// SetWindowBounds moves/resizes the window frame. No-op once closed.
func (h *Host) SetWindowBounds(r geom.Rect) {
	if h.blocked() {
		return
	}
	h.bounds.SetWindowBounds(r)
}

// RequestPaint runs the painter for the given clip under the callback guard.
func (h *Host) RequestPaint(clip geom.Rect) PaintResult {
	return h.client.paint(clip)
}

// Close tears the host down. Idempotent: the first call issues the backing
// close and arms the closing tail; Closed fires after every other pending
// event for this host, exactly once.
func (h *Host) Close() {
	if h.closing || h.client.closed {
		return
	}
	h.logger.Debug("close requested", "host", h.id)
	h.closing = true
	h.backing.Close()
	h.beginClosing()
}

// Backing notification entry points. Adapters call these once already
// marshalled onto the scheduler thread; delivery is deferred to the next
// drain so batched notifications fire deterministically and one listener
// panic cannot abort the rest.

func (h *Host) OnBackingWindowShown()       { h.noteAxis(axisVisible, true) }
func (h *Host) OnBackingWindowHidden()      { h.noteAxis(axisVisible, false) }
func (h *Host) OnBackingWindowFocusGained() { h.noteAxis(axisFocused, true) }
func (h *Host) OnBackingWindowFocusLost()   { h.noteAxis(axisFocused, false) }
func (h *Host) OnBackingWindowIconified()   { h.noteAxis(axisIconified, true) }
func (h *Host) OnBackingWindowDeiconified() {
	h.noteAxis(axisIconified, false)
	h.restoreBaseline()
}
func (h *Host) OnBackingWindowMaximized() { h.noteAxis(axisMaximized, true) }
func (h *Host) OnBackingWindowDemaximized() {
	h.noteAxis(axisMaximized, false)
	h.restoreBaseline()
}

// OnBackingWindowMoved arms the moved-pending flag when the confirmed
// position differs from the last delivered one.
func (h *Host) OnBackingWindowMoved() {
	if h.client.closed {
		return
	}
	cur := h.bounds.ClientBounds()
	if cur.IsEmpty() {
		return
	}
	if !cur.SamePos(h.lastClient) {
		h.movedPending = true
		h.client.movedPending = true
	}
	h.noteBaseline(cur)
}

// OnBackingWindowResized arms the resized-pending flag when the confirmed
// size differs from the last delivered one.
func (h *Host) OnBackingWindowResized() {
	if h.client.closed {
		return
	}
	cur := h.bounds.ClientBounds()
	if cur.IsEmpty() {
		return
	}
	if !cur.SameSize(h.lastClient) {
		h.resizedPending = true
		h.client.resizedPending = true
	}
	h.noteBaseline(cur)
}

// OnBackingWindowClosing reports platform-initiated closure (user hit the
// close button, or the window died). Routes into the same closing path as
// the Close command.
func (h *Host) OnBackingWindowClosing() {
	if h.closing || h.client.closed {
		return
	}
	h.closing = true
	h.beginClosing()
}

// noteAxis records a backing-confirmed state report. Duplicate reports are
// ignored; a flip restarts that axis's stability window. Once closing, the
// event set is frozen: the synthesized tail is authoritative.
func (h *Host) noteAxis(k axisKind, v bool) {
	if h.closing || h.client.closed {
		return
	}
	a := &h.axes[k]
	if a.backing == v {
		return
	}
	a.backing = v
	a.since = h.now()
	a.immediate = false
}

// beginClosing runs the pre-event-firing registry hook and synthesizes the
// focus-lost/hidden tail toolkits conventionally deliver before close, even
// when no explicit hide preceded the closure. In-flight iconify/maximize
// confirmations are forced through so they still fire ahead of Closed.
func (h *Host) beginClosing() {
	h.reg.onClosing(h)

	fa := &h.axes[axisFocused]
	h.closeFocusLost = fa.confirmed
	fa.backing = false
	fa.confirmed = false

	va := &h.axes[axisVisible]
	h.closeHidden = va.confirmed
	va.backing = false
	va.confirmed = false

	for _, k := range []axisKind{axisIconified, axisMaximized} {
		if a := &h.axes[k]; a.backing != a.confirmed {
			a.immediate = true
		}
	}

	h.pendingClosed = true
}

// noteBaseline remembers the last plain-showing client rect as the restore
// target for deiconify/demaximize.
func (h *Host) noteBaseline(client geom.Rect) {
	v := h.axes[axisVisible]
	if !v.backing || h.axes[axisIconified].backing || h.axes[axisMaximized].backing {
		return
	}
	h.baseline = client
}

// restoreBaseline reapplies the remembered plain-showing bounds after the
// backing window leaves iconified/maximized state.
func (h *Host) restoreBaseline() {
	if h.closing || h.client.closed || h.baseline.IsEmpty() {
		return
	}
	if h.axes[axisIconified].backing || h.axes[axisMaximized].backing {
		return
	}
	if h.bounds.ClientBounds().Eq(h.baseline) {
		return
	}
	h.bounds.SetClientBounds(h.baseline)
}

// prime seeds the delivered-bounds tracking after creation-time defaults
// have been applied, discarding any pending flags they armed.
func (h *Host) prime() {
	h.lastClient = h.bounds.ClientBounds()
	h.baseline = h.lastClient
	h.movedPending = false
	h.resizedPending = false
	h.client.movedPending = false
	h.client.resizedPending = false
}

func (h *Host) now() time.Time {
	return h.reg.sched.Now()
}

// delayFor maps an axis transition to its stability category.
func (h *Host) delayFor(k axisKind, target bool) time.Duration {
	switch k {
	case axisVisible:
		if !target {
			return h.hiddenStability
		}
		return h.stateStability
	case axisIconified, axisMaximized:
		return h.antiFlicker
	default:
		return h.stateStability
	}
}

// settled reports whether nothing but Closed remains pending.
func (h *Host) settled() bool {
	for k := axisKind(0); k < axisCount; k++ {
		if h.axes[k].confirmed != h.axes[k].backing {
			return false
		}
	}
	return !h.movedPending && !h.resizedPending
}

// forceSettle marks every in-flight axis transition immediate, so the next
// drain flushes the host regardless of stability delays. Used at shutdown.
func (h *Host) forceSettle() {
	for k := axisKind(0); k < axisCount; k++ {
		if h.axes[k].confirmed != h.axes[k].backing {
			h.axes[k].immediate = true
		}
	}
}

// drain fires the host's due events in canonical order: visibility, focus,
// iconified, maximized, moved, resized, then Closed once nothing earlier
// remains.
func (h *Host) drain(now time.Time) {
	if h.client.closed {
		return
	}

	h.fireAxis(axisVisible, now, EventShown, EventHidden)
	h.fireAxis(axisFocused, now, EventFocusGained, EventFocusLost)
	h.fireAxis(axisIconified, now, EventIconified, EventDeiconified)
	h.fireAxis(axisMaximized, now, EventMaximized, EventDemaximized)

	if h.movedPending {
		h.movedPending = false
		cur := h.deliveredClient()
		h.lastClient.X = cur.X
		h.lastClient.Y = cur.Y
		h.client.deliver(EventMoved, cur)
	}
	if h.resizedPending {
		h.resizedPending = false
		cur := h.deliveredClient()
		h.lastClient.Width = cur.Width
		h.lastClient.Height = cur.Height
		h.client.deliver(EventResized, cur)
	}

	if h.pendingClosed && h.settled() {
		// Flags clear before each delivery so a repanicking listener costs
		// one tick, never the Closed event itself.
		if h.closeFocusLost {
			h.closeFocusLost = false
			h.client.deliver(EventFocusLost, geom.Rect{})
		}
		if h.closeHidden {
			h.closeHidden = false
			h.client.deliver(EventHidden, geom.Rect{})
		}
		h.pendingClosed = false
		h.reg.onClosedFiring(h)
		h.client.deliver(EventClosed, geom.Rect{})
	}
}

// fireAxis confirms and delivers one axis transition once it has survived
// its stability window, coalescing rapid backing toggles into at most one
// event.
func (h *Host) fireAxis(k axisKind, now time.Time, onTrue, onFalse EventType) {
	a := &h.axes[k]
	if a.backing == a.confirmed {
		return
	}
	if !a.immediate && now.Sub(a.since) < h.delayFor(k, a.backing) {
		return
	}
	a.confirmed = a.backing
	a.immediate = false
	if a.confirmed {
		h.client.deliver(onTrue, geom.Rect{})
	} else {
		h.client.deliver(onFalse, geom.Rect{})
	}
}

// deliveredClient is the payload for Moved/Resized: live bounds, or the last
// known rect when the backing window vanished mid-flight.
func (h *Host) deliveredClient() geom.Rect {
	cur := h.bounds.ClientBounds()
	if cur.IsEmpty() {
		return h.lastClient
	}
	return cur
}
