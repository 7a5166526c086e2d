// Package x11 is the reference backing adapter: it executes the engine's
// window commands against an X server via EWMH/ICCCM and pumps X events back
// into the engine's notification entry points, marshalled onto the
// scheduler thread.
package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Connect establishes a connection to the X server.
func Connect() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the X event loop (blocking). Run it on its own
// goroutine; window event handlers forward onto the engine scheduler.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close quits the event loop and disconnects from the X server.
func (c *Connection) Close() {
	xevent.Quit(c.XUtil)
	c.XUtil.Conn().Close()
}
