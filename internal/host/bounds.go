package host

import (
	"github.com/1broseidon/winhost/internal/backing"
	"github.com/1broseidon/winhost/internal/geom"
)

// BoundsHelper exposes closed-safe client/window bounds access for one host,
// deriving whichever rectangle the backing adapter cannot supply natively
// from the counterpart plus insets.
type BoundsHelper struct {
	backing backing.Window
}

// NewBoundsHelper wraps a backing window.
func NewBoundsHelper(b backing.Window) *BoundsHelper {
	return &BoundsHelper{backing: b}
}

// Insets returns the frame spans. Undecorated windows always report zero
// insets; decorated ones prefer deriving window − client over the raw
// getter, so derived and native bounds stay mutually consistent.
func (b *BoundsHelper) Insets() geom.Insets {
	if b.backing.IsClosed() || !b.backing.Decorated() {
		return geom.Insets{}
	}
	w, wok := b.backing.WindowBounds()
	c, cok := b.backing.ClientBounds()
	if wok && cok {
		return geom.InsetsBetween(w, c)
	}
	return b.backing.Insets()
}

// ClientBounds returns the client rectangle in OS pixels, or the empty
// sentinel once the backing window is closed.
func (b *BoundsHelper) ClientBounds() geom.Rect {
	if b.backing.IsClosed() {
		return geom.Rect{}
	}
	if c, ok := b.backing.ClientBounds(); ok {
		return c
	}
	w, _ := b.backing.WindowBounds()
	return geom.SubInsets(w, b.Insets())
}

// WindowBounds returns the window rectangle in OS pixels, or the empty
// sentinel once the backing window is closed.
func (b *BoundsHelper) WindowBounds() geom.Rect {
	if b.backing.IsClosed() {
		return geom.Rect{}
	}
	if w, ok := b.backing.WindowBounds(); ok {
		return w
	}
	c, _ := b.backing.ClientBounds()
	return geom.AddInsets(c, b.Insets())
}

// SetClientBounds issues the raw bounds command matching the backing
// adapter's native rectangle. Silent no-op once closed.
func (b *BoundsHelper) SetClientBounds(r geom.Rect) {
	if b.backing.IsClosed() {
		return
	}
	if _, ok := b.backing.ClientBounds(); ok {
		b.backing.SetClientBounds(r)
		return
	}
	b.backing.SetWindowBounds(geom.AddInsets(r, b.Insets()))
}

// SetWindowBounds issues the raw bounds command matching the backing
// adapter's native rectangle. Silent no-op once closed.
func (b *BoundsHelper) SetWindowBounds(r geom.Rect) {
	if b.backing.IsClosed() {
		return
	}
	if _, ok := b.backing.WindowBounds(); ok {
		b.backing.SetWindowBounds(r)
		return
	}
	b.backing.SetClientBounds(geom.SubInsets(r, b.Insets()))
}
