package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/winhost/internal/backing"
	"github.com/1broseidon/winhost/internal/config"
	"github.com/1broseidon/winhost/internal/geom"
	"github.com/1broseidon/winhost/internal/host"
	"github.com/1broseidon/winhost/internal/sched"
)

// logListener prints every lifecycle event it receives.
type logListener struct {
	logger *slog.Logger
	name   string
}

func (l *logListener) event(ev string, args ...any) {
	l.logger.Info("window event", append([]any{"window", l.name, "event", ev}, args...)...)
}

func (l *logListener) OnWindowShown()          { l.event("shown") }
func (l *logListener) OnWindowHidden()         { l.event("hidden") }
func (l *logListener) OnWindowFocusGained()    { l.event("focus-gained") }
func (l *logListener) OnWindowFocusLost()      { l.event("focus-lost") }
func (l *logListener) OnWindowIconified()      { l.event("iconified") }
func (l *logListener) OnWindowDeiconified()    { l.event("deiconified") }
func (l *logListener) OnWindowMaximized()      { l.event("maximized") }
func (l *logListener) OnWindowDemaximized()    { l.event("demaximized") }
func (l *logListener) OnWindowClosed()         { l.event("closed") }
func (l *logListener) OnWindowMoved(c geom.Rect) {
	l.event("moved", "x", c.X, "y", c.Y)
}
func (l *logListener) OnWindowResized(c geom.Rect) {
	l.event("resized", "width", c.Width, "height", c.Height)
}

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default: standard location)")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "winhost: %v\n", err)
		return 1
	}
	// Keep the scripted session snappy regardless of configured delays.
	cfg.StateStabilityDelay = 0
	cfg.HiddenStabilityDelay = 0
	cfg.AntiFlickerDelay = 0
	if cfg.DefaultBounds.Rect().IsEmpty() {
		cfg.DefaultBounds = config.Bounds{X: 100, Y: 200, Width: 300, Height: 400}
	}

	loop := sched.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	reg := host.NewRegistry(loop, cfg.HostOptions(logger))

	done := make(chan struct{})
	loop.Execute(func() {
		if err := demoScript(loop, reg, logger, done); err != nil {
			fmt.Fprintf(os.Stderr, "winhost: %v\n", err)
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		fmt.Fprintln(os.Stderr, "winhost: demo timed out")
		return 1
	}
	return 0
}

// demoScript walks two simulated windows through their lifecycle and closes
// the binding when the second one finishes.
func demoScript(loop *sched.Loop, reg *host.Registry, logger *slog.Logger, done chan struct{}) error {
	insets := geom.Insets{Left: 4, Top: 28, Right: 4, Bottom: 4}

	makeHost := func(name string) (*host.Host, error) {
		sim := backing.NewSim(insets)
		sim.AutoConfirm = true
		h, err := reg.CreateHost(host.HostOptions{
			Backing:  sim,
			Listener: &logListener{logger: logger, name: name},
		})
		if err != nil {
			return nil, err
		}
		sim.Attach(h)
		return h, nil
	}

	first, err := makeHost("first")
	if err != nil {
		return err
	}
	second, err := makeHost("second")
	if err != nil {
		return err
	}

	step := 250 * time.Millisecond
	at := func(n int, fn func()) {
		loop.ExecuteAfter(fn, time.Duration(n)*step)
	}

	at(1, func() { first.Show() })
	at(2, func() { first.RequestFocusGain() })
	at(3, func() { second.Show() })
	at(4, func() {
		first.SetClientBounds(first.ClientBounds().WithPosDeltas(40, 25))
	})
	at(5, func() { first.Maximize() })
	at(6, func() { first.Demaximize() })
	at(7, func() { second.Iconify() })
	at(8, func() { first.Close() })
	at(9, func() { second.Close() })
	at(12, func() {
		reg.Shutdown()
		close(done)
	})
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
