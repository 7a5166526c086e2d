package geom

// Rect describes a rectangular region in OS pixels.
// The zero value doubles as the empty-rectangle sentinel returned for
// bounds queries on closed windows.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// IsEmpty reports whether the rect is the empty sentinel.
func (r Rect) IsEmpty() bool {
	return r == Rect{}
}

// Eq reports whether both rects have identical position and size.
func (r Rect) Eq(o Rect) bool {
	return r == o
}

// SamePos reports whether both rects share the same top-left corner.
func (r Rect) SamePos(o Rect) bool {
	return r.X == o.X && r.Y == o.Y
}

// SameSize reports whether both rects have identical dimensions.
func (r Rect) SameSize(o Rect) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// WithPosDeltas returns a copy shifted by dx/dy, keeping the size.
func (r Rect) WithPosDeltas(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// WithSizeDeltas returns a copy grown by dw/dh, keeping the position.
func (r Rect) WithSizeDeltas(dw, dh int) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width + dw, Height: r.Height + dh}
}

// Insets describes the border spans separating window bounds from client
// bounds on a decorated window. The zero value means "no decoration".
type Insets struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// IsZero reports whether all four spans are zero.
func (in Insets) IsZero() bool {
	return in == Insets{}
}

// AddInsets converts client bounds to window bounds by growing the rect
// outward by the given insets.
func AddInsets(client Rect, in Insets) Rect {
	return Rect{
		X:      client.X - in.Left,
		Y:      client.Y - in.Top,
		Width:  client.Width + in.Left + in.Right,
		Height: client.Height + in.Top + in.Bottom,
	}
}

// SubInsets converts window bounds to client bounds by shrinking the rect
// inward by the given insets. It is the inverse of AddInsets for any fixed
// insets, so repeated round-trips are a fixed point.
func SubInsets(window Rect, in Insets) Rect {
	return Rect{
		X:      window.X + in.Left,
		Y:      window.Y + in.Top,
		Width:  window.Width - in.Left - in.Right,
		Height: window.Height - in.Top - in.Bottom,
	}
}

// InsetsBetween derives the insets separating a window rect from the client
// rect it contains.
func InsetsBetween(window, client Rect) Insets {
	return Insets{
		Left:   client.X - window.X,
		Top:    client.Y - window.Y,
		Right:  (window.X + window.Width) - (client.X + client.Width),
		Bottom: (window.Y + window.Height) - (client.Y + client.Height),
	}
}
