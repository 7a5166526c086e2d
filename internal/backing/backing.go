// Package backing abstracts the platform window a host wraps. Concrete
// adapters (X11, simulated) execute the commands issued here and report what
// actually happened through the NotifySink entry points, after marshalling
// onto the engine's scheduler thread.
package backing

import "github.com/1broseidon/winhost/internal/geom"

// Window is the command surface the engine consumes, one per host.
//
// Bounds getters return ok=false when the adapter has no native source for
// that rectangle; the engine derives it from the counterpart plus insets.
// Every bounds query or command is preceded by an IsClosed check.
type Window interface {
	// IsClosed reports whether the platform window is gone.
	IsClosed() bool
	// Decorated reports whether the window carries a frame. Immutable.
	Decorated() bool

	WindowBounds() (geom.Rect, bool)
	ClientBounds() (geom.Rect, bool)
	SetWindowBounds(r geom.Rect)
	SetClientBounds(r geom.Rect)
	// Insets returns the raw frame spans for decorated windows.
	Insets() geom.Insets

	Show()
	Hide()
	FocusGain()
	FocusLoss()
	SetIconified(iconified bool)
	SetMaximized(maximized bool)
	// Close requests platform-side teardown. One-shot.
	Close()
}

// NotifySink receives backing-confirmed lifecycle notifications. The engine's
// host implements it; adapters must invoke it on the scheduler thread only.
type NotifySink interface {
	OnBackingWindowShown()
	OnBackingWindowHidden()
	OnBackingWindowFocusGained()
	OnBackingWindowFocusLost()
	OnBackingWindowIconified()
	OnBackingWindowDeiconified()
	OnBackingWindowMaximized()
	OnBackingWindowDemaximized()
	OnBackingWindowMoved()
	OnBackingWindowResized()
	OnBackingWindowClosing()
}
