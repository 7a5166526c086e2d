package host

import (
	"log/slog"

	"github.com/1broseidon/winhost/internal/geom"
)

// clientWrapper guards the application listener for one host. It keeps the
// shadow state the application sees through the host accessors, suppresses
// delivery after closure, and isolates listener panics from the engine.
type clientWrapper struct {
	hostID   uint64
	listener Listener
	painter  Painter
	policy   PanicPolicy
	onPanic  PanicHandler
	logger   *slog.Logger

	showing        bool
	focused        bool
	iconified      bool
	maximized      bool
	closed         bool
	movedPending   bool
	resizedPending bool
}

func newClientWrapper(hostID uint64, listener Listener, painter Painter, policy PanicPolicy, onPanic PanicHandler, logger *slog.Logger) *clientWrapper {
	w := &clientWrapper{
		hostID:   hostID,
		listener: listener,
		painter:  painter,
		policy:   policy,
		onPanic:  onPanic,
		logger:   logger,
	}
	if w.onPanic == nil {
		w.onPanic = func(hostID uint64, event EventType, recovered any) {
			logger.Error("listener panic recovered",
				"host", hostID,
				"event", event,
				"error", recovered)
		}
	}
	return w
}

// deliver fires one event at the listener. Shadow state is updated before
// the listener runs so re-entrant accessor calls observe post-event values.
// Once closed, everything but the single Closed delivery is suppressed.
func (w *clientWrapper) deliver(t EventType, client geom.Rect) {
	if w.closed {
		return
	}

	switch t {
	case EventShown:
		w.showing = true
	case EventHidden:
		w.showing = false
	case EventFocusGained:
		w.focused = true
	case EventFocusLost:
		w.focused = false
	case EventIconified:
		w.iconified = true
	case EventDeiconified:
		w.iconified = false
	case EventMaximized:
		w.maximized = true
	case EventDemaximized:
		w.maximized = false
	case EventMoved:
		w.movedPending = false
	case EventResized:
		w.resizedPending = false
	case EventClosed:
		w.closed = true
	}

	w.invoke(t, client)
}

func (w *clientWrapper) invoke(t EventType, client geom.Rect) {
	defer func() {
		if r := recover(); r != nil {
			if w.policy == PanicRepanic {
				panic(r)
			}
			w.onPanic(w.hostID, t, r)
		}
	}()

	switch t {
	case EventShown:
		w.listener.OnWindowShown()
	case EventHidden:
		w.listener.OnWindowHidden()
	case EventFocusGained:
		w.listener.OnWindowFocusGained()
	case EventFocusLost:
		w.listener.OnWindowFocusLost()
	case EventIconified:
		w.listener.OnWindowIconified()
	case EventDeiconified:
		w.listener.OnWindowDeiconified()
	case EventMaximized:
		w.listener.OnWindowMaximized()
	case EventDemaximized:
		w.listener.OnWindowDemaximized()
	case EventMoved:
		w.listener.OnWindowMoved(client)
	case EventResized:
		w.listener.OnWindowResized(client)
	case EventClosed:
		w.listener.OnWindowClosed()
	}
}

// paint runs the painter under the same guard as event delivery. A panicking
// painter reports the whole clip as painted rather than discarding output.
func (w *clientWrapper) paint(clip geom.Rect) (res PaintResult) {
	if w.closed {
		return PaintResult{}
	}
	if w.painter == nil {
		return PaintResult{Regions: []geom.Rect{clip}}
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("painter panic recovered", "host", w.hostID, "error", r)
			res = PaintResult{Regions: []geom.Rect{clip}, Fallback: true}
		}
	}()

	return PaintResult{Regions: w.painter.Paint(clip)}
}
