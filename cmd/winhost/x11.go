package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winhost/internal/host"
	"github.com/1broseidon/winhost/internal/sched"
	"github.com/1broseidon/winhost/internal/x11"
)

// runX11 adopts an existing X11 window (by id) and mirrors its lifecycle
// through the engine, logging every delivered event until the window closes.
func runX11(args []string) int {
	fs := flag.NewFlagSet("x11", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default: standard location)")
	windowID := fs.String("window", "", "X11 window id to adopt (decimal or 0x hex)")
	undecorated := fs.Bool("undecorated", false, "treat the window as undecorated")
	fs.Parse(args)

	if *windowID == "" {
		fmt.Fprintln(os.Stderr, "winhost x11: -window is required")
		return 2
	}
	id, err := parseWindowID(*windowID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "winhost x11: %v\n", err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "winhost: %v\n", err)
		return 1
	}

	conn, err := x11.Connect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "winhost: connect to X server: %v\n", err)
		return 1
	}
	defer conn.Close()

	loop := sched.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)
	go conn.EventLoop()

	reg := host.NewRegistry(loop, cfg.HostOptions(logger))

	closed := make(chan struct{})
	errs := make(chan error, 1)
	loop.Execute(func() {
		win := x11.Adopt(conn, id, !*undecorated, loop, logger)
		h, err := reg.CreateHost(host.HostOptions{
			Backing:  win,
			Listener: &closeNotifier{logListener: logListener{logger: logger, name: *windowID}, closed: closed},
		})
		if err != nil {
			errs <- err
			return
		}
		if err := win.Attach(h); err != nil {
			errs <- fmt.Errorf("attach to window %s: %w", *windowID, err)
			return
		}
		logger.Info("managing window", "window", *windowID, "host", h.ID())
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-closed:
		logger.Info("window closed, exiting")
	case err := <-errs:
		fmt.Fprintf(os.Stderr, "winhost: %v\n", err)
		return 1
	case <-sig:
		logger.Info("interrupted, shutting down")
		flushed := make(chan struct{})
		loop.Execute(func() {
			reg.Shutdown()
			close(flushed)
		})
		<-flushed
	}
	return 0
}

// closeNotifier signals the main goroutine once the Closed event lands.
type closeNotifier struct {
	logListener
	closed chan struct{}
}

func (c *closeNotifier) OnWindowClosed() {
	c.logListener.OnWindowClosed()
	close(c.closed)
}

func parseWindowID(s string) (xproto.Window, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad window id %q: %w", s, err)
	}
	return xproto.Window(v), nil
}
