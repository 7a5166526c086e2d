package host

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winhost/internal/backing"
	"github.com/1broseidon/winhost/internal/geom"
	"github.com/1broseidon/winhost/internal/sched"
)

// BoundsTarget selects which rectangle creation-time default bounds apply to.
type BoundsTarget int

const (
	BoundsClient BoundsTarget = iota
	BoundsWindow
)

// Options configures a registry and the hosts it creates.
type Options struct {
	// Stability delays coalesce rapid backing toggles into one confirmed
	// transition. Zero means every notification confirms at the next drain.
	StateStability  time.Duration
	HiddenStability time.Duration
	AntiFlicker     time.Duration

	// PollPeriod is the event logic process period. Defaults to 100ms.
	PollPeriod time.Duration

	// DefaultBounds, when non-empty, is applied to every created host,
	// targeting the client or window rectangle per BoundsTarget.
	DefaultBounds geom.Rect
	BoundsTarget  BoundsTarget

	// PanicPolicy and PanicHandler govern panics escaping client callbacks.
	PanicPolicy  PanicPolicy
	PanicHandler PanicHandler

	Logger *slog.Logger
}

// HostOptions describes one host to create.
type HostOptions struct {
	Backing  backing.Window
	Listener Listener
	Painter  Painter
	Owner    *Host
}

// Registry owns the live-host set for one binding: the handle→host map, the
// creation-ordered host list, and the event logic process.
type Registry struct {
	sched  sched.Scheduler
	logger *slog.Logger
	opts   Options

	byHandle map[backing.Window]*Host
	order    []*Host
	logic    *eventLogic
	nextID   uint64
}

// NewRegistry creates an empty registry on the given scheduler.
func NewRegistry(s sched.Scheduler, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PollPeriod <= 0 {
		opts.PollPeriod = 100 * time.Millisecond
	}

	return &Registry{
		sched:    s,
		logger:   opts.Logger,
		opts:     opts,
		byHandle: make(map[backing.Window]*Host),
		logic:    newEventLogic(s, opts.Logger, opts.PollPeriod),
	}
}

// CreateHost registers a new host: map entry, ordered list, event logic
// working set, then default bounds. Applying defaults runs synchronously and
// last, on purpose: a backing adapter that fails there does so with the host
// fully registered.
func (r *Registry) CreateHost(o HostOptions) (*Host, error) {
	if o.Backing == nil {
		return nil, fmt.Errorf("create host: backing window required")
	}
	if o.Listener == nil {
		return nil, fmt.Errorf("create host: listener required")
	}
	if _, ok := r.byHandle[o.Backing]; ok {
		return nil, fmt.Errorf("create host: backing window already registered")
	}

	r.nextID++
	h := &Host{
		id:              r.nextID,
		backing:         o.Backing,
		owner:           o.Owner,
		bounds:          NewBoundsHelper(o.Backing),
		logger:          r.logger,
		reg:             r,
		stateStability:  r.opts.StateStability,
		hiddenStability: r.opts.HiddenStability,
		antiFlicker:     r.opts.AntiFlicker,
	}
	h.client = newClientWrapper(h.id, o.Listener, o.Painter, r.opts.PanicPolicy, r.opts.PanicHandler, r.logger)

	r.byHandle[o.Backing] = h
	r.order = append(r.order, h)
	r.logic.add(h)

	if !r.opts.DefaultBounds.IsEmpty() {
		switch r.opts.BoundsTarget {
		case BoundsWindow:
			h.bounds.SetWindowBounds(r.opts.DefaultBounds)
		default:
			h.bounds.SetClientBounds(r.opts.DefaultBounds)
		}
	}
	h.prime()

	r.logger.Debug("host created", "host", h.id)
	return h, nil
}

// Lookup resolves a backing handle to its host.
func (r *Registry) Lookup(b backing.Window) (*Host, bool) {
	h, ok := r.byHandle[b]
	return h, ok
}

// Hosts returns the live hosts in creation order.
func (r *Registry) Hosts() []*Host {
	out := make([]*Host, len(r.order))
	copy(out, r.order)
	return out
}

// Shutdown closes every host still owing event delivery synchronously,
// flushing each one through its Closed delivery. The event logic process
// stops on its own once the working set empties.
func (r *Registry) Shutdown() {
	owing := make([]*Host, len(r.logic.working))
	copy(owing, r.logic.working)
	for _, h := range owing {
		h.Close()
		h.forceSettle()
		h.drain(r.sched.Now())
	}
}

// onClosing is the pre-event-firing hook: the host leaves the handle map and
// ordered list before its closing tail fires. An unregistered host here is
// an internal consistency violation.
func (r *Registry) onClosing(h *Host) {
	if _, ok := r.byHandle[h.backing]; !ok {
		panic("winhost: closing host not present in registry")
	}
	delete(r.byHandle, h.backing)
	for i, cur := range r.order {
		if cur == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Debug("host closing", "host", h.id)
}

// onClosedFiring runs just before the Closed event is delivered: the host
// leaves the event logic working set, stopping the process if it was last.
func (r *Registry) onClosedFiring(h *Host) {
	r.logic.remove(h)
}
