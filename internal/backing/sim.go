package backing

import "github.com/1broseidon/winhost/internal/geom"

// Sim is an in-memory backing window for tests and the demo binary. Commands
// are recorded; with AutoConfirm set each command also reports back through
// the attached sink immediately, mimicking an agreeable window system.
//
// Sim is not safe for concurrent use: like a real adapter it is expected to
// be driven from the scheduler thread.
type Sim struct {
	// AutoConfirm makes every command confirm itself synchronously.
	AutoConfirm bool
	// NativeClient makes ClientBounds a native getter, for exercising the
	// engine's window-side derivation path.
	NativeClient bool

	sink      NotifySink
	decorated bool
	insets    geom.Insets
	window    geom.Rect
	closed    bool

	shown     bool
	focused   bool
	iconified bool
	maximized bool

	commands []string
}

var _ Window = (*Sim)(nil)

// NewSim creates a decorated simulated window with the given frame insets.
// Pass zero insets for an undecorated window.
func NewSim(insets geom.Insets) *Sim {
	return &Sim{
		decorated: !insets.IsZero(),
		insets:    insets,
	}
}

// Attach connects the notification sink. Must happen before any command.
func (s *Sim) Attach(sink NotifySink) {
	s.sink = sink
}

// Commands returns the raw command log, oldest first.
func (s *Sim) Commands() []string {
	return s.commands
}

func (s *Sim) record(cmd string) {
	s.commands = append(s.commands, cmd)
}

func (s *Sim) IsClosed() bool    { return s.closed }
func (s *Sim) Decorated() bool   { return s.decorated }
func (s *Sim) Insets() geom.Insets { return s.insets }

func (s *Sim) WindowBounds() (geom.Rect, bool) {
	return s.window, true
}

// ClientBounds is natively available only with NativeClient set; otherwise
// the engine derives it via insets, matching toolkits that only expose outer
// frame geometry.
func (s *Sim) ClientBounds() (geom.Rect, bool) {
	if s.NativeClient {
		return geom.SubInsets(s.window, s.insets), true
	}
	return geom.Rect{}, false
}

func (s *Sim) SetWindowBounds(r geom.Rect) {
	s.record("set-window-bounds")
	if s.closed {
		return
	}
	prev := s.window
	s.window = r
	if s.AutoConfirm {
		if !prev.SamePos(r) {
			s.ConfirmMoved()
		}
		if !prev.SameSize(r) {
			s.ConfirmResized()
		}
	}
}

func (s *Sim) SetClientBounds(r geom.Rect) {
	s.SetWindowBounds(geom.AddInsets(r, s.insets))
}

func (s *Sim) Show() {
	s.record("show")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		s.ConfirmShown()
	}
}

func (s *Sim) Hide() {
	s.record("hide")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		s.ConfirmHidden()
	}
}

func (s *Sim) FocusGain() {
	s.record("focus-gain")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		s.ConfirmFocusGained()
	}
}

func (s *Sim) FocusLoss() {
	s.record("focus-loss")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		s.ConfirmFocusLost()
	}
}

func (s *Sim) SetIconified(iconified bool) {
	s.record("set-iconified")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		if iconified {
			s.ConfirmIconified()
		} else {
			s.ConfirmDeiconified()
		}
	}
}

func (s *Sim) SetMaximized(maximized bool) {
	s.record("set-maximized")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		if maximized {
			s.ConfirmMaximized()
		} else {
			s.ConfirmDemaximized()
		}
	}
}

func (s *Sim) Close() {
	s.record("close")
	if s.closed {
		return
	}
	if s.AutoConfirm {
		s.ConfirmClosing()
	}
}

// Confirm* deliver the matching backing notification, setting simulated
// platform state first. Tests drive these directly when AutoConfirm is off.
// Confirmations before Attach are dropped, like events for a window nobody
// listens to yet.

func (s *Sim) ConfirmShown() {
	s.shown = true
	if s.sink != nil {
		s.sink.OnBackingWindowShown()
	}
}

func (s *Sim) ConfirmHidden() {
	s.shown = false
	if s.sink != nil {
		s.sink.OnBackingWindowHidden()
	}
}

func (s *Sim) ConfirmFocusGained() {
	s.focused = true
	if s.sink != nil {
		s.sink.OnBackingWindowFocusGained()
	}
}

func (s *Sim) ConfirmFocusLost() {
	s.focused = false
	if s.sink != nil {
		s.sink.OnBackingWindowFocusLost()
	}
}

func (s *Sim) ConfirmIconified() {
	s.iconified = true
	if s.sink != nil {
		s.sink.OnBackingWindowIconified()
	}
}

func (s *Sim) ConfirmDeiconified() {
	s.iconified = false
	if s.sink != nil {
		s.sink.OnBackingWindowDeiconified()
	}
}

func (s *Sim) ConfirmMaximized() {
	s.maximized = true
	if s.sink != nil {
		s.sink.OnBackingWindowMaximized()
	}
}

func (s *Sim) ConfirmDemaximized() {
	s.maximized = false
	if s.sink != nil {
		s.sink.OnBackingWindowDemaximized()
	}
}

func (s *Sim) ConfirmMoved() {
	if s.sink != nil {
		s.sink.OnBackingWindowMoved()
	}
}

func (s *Sim) ConfirmResized() {
	if s.sink != nil {
		s.sink.OnBackingWindowResized()
	}
}

// ConfirmClosing reports platform-side closure and marks the window gone.
func (s *Sim) ConfirmClosing() {
	if s.sink != nil {
		s.sink.OnBackingWindowClosing()
	}
	s.closed = true
}
