package host

import (
	"log/slog"
	"time"

	"github.com/1broseidon/winhost/internal/sched"
)

// eventLogic is the binding-wide periodic pass that drains pending events.
// It runs from host creation until the working set empties, snapshotting the
// set each pass and scheduling every host's drain as its own failure domain
// so one panicking host never starves its siblings.
type eventLogic struct {
	sched   sched.Scheduler
	logger  *slog.Logger
	period  time.Duration
	working []*Host
	running bool
}

func newEventLogic(s sched.Scheduler, logger *slog.Logger, period time.Duration) *eventLogic {
	return &eventLogic{
		sched:  s,
		logger: logger,
		period: period,
	}
}

// add appends a host to the working set, starting the process if stopped.
func (l *eventLogic) add(h *Host) {
	l.working = append(l.working, h)
	if !l.running {
		l.running = true
		l.sched.Execute(l.run)
	}
}

// remove drops a host from the working set. A host absent from the set is a
// consistency violation, not a tolerable race.
func (l *eventLogic) remove(h *Host) {
	for i, cur := range l.working {
		if cur == h {
			l.working = append(l.working[:i], l.working[i+1:]...)
			return
		}
	}
	panic("winhost: host missing from event logic working set")
}

// run is one pass. Firing may mutate the working set, so it iterates an
// immutable snapshot.
func (l *eventLogic) run() {
	if len(l.working) == 0 {
		l.running = false
		return
	}

	snapshot := make([]*Host, len(l.working))
	copy(snapshot, l.working)
	for _, h := range snapshot {
		h := h
		l.sched.Execute(func() {
			l.drainHost(h)
		})
	}

	l.sched.ExecuteAfter(l.run, l.period)
}

// drainHost drains one host, containing any panic to this host and surfacing
// it on the diagnostic log keyed by host identity.
func (l *eventLogic) drainHost(h *Host) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("host drain panic recovered",
				"host", h.ID(),
				"error", r)
		}
	}()

	h.drain(l.sched.Now())
}
