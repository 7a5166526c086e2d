package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winhost/internal/geom"
	"github.com/1broseidon/winhost/internal/sched"
)

// Window adapts one X11 window to the engine's backing surface. Commands may
// be issued from the scheduler thread; notifications flow back through the
// pump in pump.go.
type Window struct {
	conn      *Connection
	id        xproto.Window
	win       *xwindow.Window
	sched     sched.Scheduler
	logger    *slog.Logger
	decorated bool
	closed    bool

	// last derived states, used to split X property/configure traffic into
	// discrete engine notifications.
	lastGeom  geom.Rect
	iconified bool
	maximized bool
}

// Adopt wraps an existing X window so the engine can manage its lifecycle.
func Adopt(conn *Connection, id xproto.Window, decorated bool, s sched.Scheduler, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		conn:      conn,
		id:        id,
		win:       xwindow.New(conn.XUtil, id),
		sched:     s,
		logger:    logger,
		decorated: decorated,
	}
}

func (x *Window) IsClosed() bool  { return x.closed }
func (x *Window) Decorated() bool { return x.decorated }

// WindowBounds returns the frame geometry.
func (x *Window) WindowBounds() (geom.Rect, bool) {
	if x.closed {
		return geom.Rect{}, false
	}
	g, err := x.win.DecorGeometry()
	if err != nil {
		return geom.Rect{}, false
	}
	return geom.Rect{X: g.X(), Y: g.Y(), Width: g.Width(), Height: g.Height()}, true
}

// ClientBounds is not natively available; the engine derives it from the
// frame geometry minus insets.
func (x *Window) ClientBounds() (geom.Rect, bool) {
	return geom.Rect{}, false
}

// Insets reads _NET_FRAME_EXTENTS. Windows without the property report zero
// insets.
func (x *Window) Insets() geom.Insets {
	if x.closed || !x.decorated {
		return geom.Insets{}
	}
	extents, err := ewmh.FrameExtentsGet(x.conn.XUtil, x.id)
	if err != nil {
		return geom.Insets{}
	}
	return geom.Insets{
		Left:   int(extents.Left),
		Top:    int(extents.Top),
		Right:  int(extents.Right),
		Bottom: int(extents.Bottom),
	}
}

// SetWindowBounds uses the EWMH moveresize request for WM compatibility,
// falling back to direct configuration.
func (x *Window) SetWindowBounds(r geom.Rect) {
	if x.closed {
		return
	}
	err := ewmh.MoveresizeWindow(x.conn.XUtil, x.id, r.X, r.Y, r.Width, r.Height)
	if err != nil {
		x.win.MoveResize(r.X, r.Y, r.Width, r.Height)
	}
}

func (x *Window) SetClientBounds(r geom.Rect) {
	// The engine only issues the native-side setter; derive the frame rect
	// for callers driving the adapter directly.
	x.SetWindowBounds(geom.AddInsets(r, x.Insets()))
}

func (x *Window) Show() {
	if x.closed {
		return
	}
	x.win.Map()
}

func (x *Window) Hide() {
	if x.closed {
		return
	}
	x.win.Unmap()
}

func (x *Window) FocusGain() {
	if x.closed {
		return
	}
	if err := ewmh.ActiveWindowReq(x.conn.XUtil, x.id); err != nil {
		x.logger.Debug("active window request failed", "window", x.id, "error", err)
	}
}

// FocusLoss has no X11 primitive; the WM moves focus elsewhere. Best effort:
// hand focus back to the root so FocusOut is generated.
func (x *Window) FocusLoss() {
	if x.closed {
		return
	}
	xproto.SetInputFocus(x.conn.XUtil.Conn(), xproto.InputFocusPointerRoot,
		x.conn.Root, xproto.TimeCurrentTime)
}

func (x *Window) SetIconified(iconified bool) {
	if x.closed {
		return
	}
	if iconified {
		err := ewmh.ClientEvent(x.conn.XUtil, x.id, "WM_CHANGE_STATE", icccm.StateIconic)
		if err != nil {
			x.logger.Debug("iconify request failed", "window", x.id, "error", err)
		}
		return
	}
	x.win.Map()
}

func (x *Window) SetMaximized(maximized bool) {
	if x.closed {
		return
	}
	action := 0 // _NET_WM_STATE_REMOVE
	if maximized {
		action = 1 // _NET_WM_STATE_ADD
	}
	ewmh.WmStateReq(x.conn.XUtil, x.id, action, "_NET_WM_STATE_MAXIMIZED_HORZ")
	ewmh.WmStateReq(x.conn.XUtil, x.id, action, "_NET_WM_STATE_MAXIMIZED_VERT")
}

func (x *Window) Close() {
	if x.closed {
		return
	}
	if err := ewmh.CloseWindow(x.conn.XUtil, x.id); err != nil {
		x.logger.Debug("close request failed", "window", x.id, "error", err)
	}
}
