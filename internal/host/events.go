// Package host implements the window host lifecycle engine: per-window
// state machines reconciling application commands with asynchronous backing
// notifications into an ordered, exactly-once client event stream.
package host

import "github.com/1broseidon/winhost/internal/geom"

// EventType identifies one client lifecycle event. The declaration order is
// the canonical firing order within a single drain pass; Closed is always
// last and fires at most once per host.
type EventType int

const (
	EventShown EventType = iota
	EventHidden
	EventFocusGained
	EventFocusLost
	EventIconified
	EventDeiconified
	EventMaximized
	EventDemaximized
	EventMoved
	EventResized
	EventClosed
)

// String returns the event name for logs.
func (t EventType) String() string {
	switch t {
	case EventShown:
		return "shown"
	case EventHidden:
		return "hidden"
	case EventFocusGained:
		return "focus-gained"
	case EventFocusLost:
		return "focus-lost"
	case EventIconified:
		return "iconified"
	case EventDeiconified:
		return "deiconified"
	case EventMaximized:
		return "maximized"
	case EventDemaximized:
		return "demaximized"
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Listener receives lifecycle events for one host, in canonical order, on
// the scheduler thread. Moved and Resized carry the client bounds at
// delivery time. A panicking listener never corrupts engine state; see
// PanicPolicy.
type Listener interface {
	OnWindowShown()
	OnWindowHidden()
	OnWindowFocusGained()
	OnWindowFocusLost()
	OnWindowIconified()
	OnWindowDeiconified()
	OnWindowMaximized()
	OnWindowDemaximized()
	OnWindowMoved(client geom.Rect)
	OnWindowResized(client geom.Rect)
	OnWindowClosed()
}

// Painter produces repaint output for a host. Paint returns the regions it
// actually painted within the clip.
type Painter interface {
	Paint(clip geom.Rect) []geom.Rect
}

// PaintResult reports a paint request's outcome. Fallback is set when the
// painter panicked and the engine assumed the whole clip was painted, so
// partially drawn output stays visible instead of being discarded.
type PaintResult struct {
	Regions  []geom.Rect
	Fallback bool
}

// PanicPolicy selects what happens to a panic escaping a client callback.
type PanicPolicy int

const (
	// PanicForward recovers the panic and routes it to the panic handler.
	PanicForward PanicPolicy = iota
	// PanicRepanic recovers and re-panics, surfacing in the drain unit of
	// the owning host, where it is isolated from sibling hosts.
	PanicRepanic
)

// PanicHandler receives panics recovered from client callbacks under
// PanicForward.
type PanicHandler func(hostID uint64, event EventType, recovered any)
