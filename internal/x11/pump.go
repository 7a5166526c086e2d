package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/winhost/internal/backing"
	"github.com/1broseidon/winhost/internal/geom"
)

var _ backing.Window = (*Window)(nil)

// Attach subscribes to the window's X events and forwards them to the sink
// as engine notifications. Handlers run on the X event loop goroutine and
// post to the scheduler, so the sink only ever runs on the engine thread.
func (x *Window) Attach(sink backing.NotifySink) error {
	err := x.win.Listen(
		xproto.EventMaskStructureNotify,
		xproto.EventMaskFocusChange,
		xproto.EventMaskPropertyChange,
	)
	if err != nil {
		return err
	}

	if g, ok := x.WindowBounds(); ok {
		x.lastGeom = g
	}

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		x.post(sink.OnBackingWindowShown)
	}).Connect(x.conn.XUtil, x.id)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		x.post(sink.OnBackingWindowHidden)
	}).Connect(x.conn.XUtil, x.id)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		x.post(sink.OnBackingWindowFocusGained)
	}).Connect(x.conn.XUtil, x.id)

	xevent.FocusOutFun(func(xu *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		x.post(sink.OnBackingWindowFocusLost)
	}).Connect(x.conn.XUtil, x.id)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		g := geom.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)}
		x.post(func() {
			prev := x.lastGeom
			x.lastGeom = g
			if !g.SamePos(prev) {
				sink.OnBackingWindowMoved()
			}
			if !g.SameSize(prev) {
				sink.OnBackingWindowResized()
			}
		})
	}).Connect(x.conn.XUtil, x.id)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "WM_STATE":
			x.propagateIconified(sink)
		case "_NET_WM_STATE":
			x.propagateMaximized(sink)
		}
	}).Connect(x.conn.XUtil, x.id)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		x.post(func() {
			x.closed = true
			sink.OnBackingWindowClosing()
		})
	}).Connect(x.conn.XUtil, x.id)

	return nil
}

// post marshals a notification onto the engine scheduler.
func (x *Window) post(fn func()) {
	x.sched.Execute(fn)
}

// propagateIconified diffs the ICCCM WM_STATE property into iconify
// notifications. Runs on the X event loop; state diffing happens on the
// scheduler thread.
func (x *Window) propagateIconified(sink backing.NotifySink) {
	state, err := icccm.WmStateGet(x.conn.XUtil, x.id)
	if err != nil {
		return
	}
	iconic := state.State == icccm.StateIconic
	x.post(func() {
		if iconic == x.iconified {
			return
		}
		x.iconified = iconic
		if iconic {
			sink.OnBackingWindowIconified()
		} else {
			sink.OnBackingWindowDeiconified()
		}
	})
}

// propagateMaximized diffs _NET_WM_STATE into maximize notifications. Both
// the horizontal and vertical atoms must be present to count as maximized,
// matching how the engine issues the request.
func (x *Window) propagateMaximized(sink backing.NotifySink) {
	states, err := ewmh.WmStateGet(x.conn.XUtil, x.id)
	if err != nil {
		return
	}
	horz, vert := false, false
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			horz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			vert = true
		}
	}
	max := horz && vert
	x.post(func() {
		if max == x.maximized {
			return
		}
		x.maximized = max
		if max {
			sink.OnBackingWindowMaximized()
		} else {
			sink.OnBackingWindowDemaximized()
		}
	})
}
