package sched

import "time"

// Manual is a deterministic scheduler for tests. Time only moves when
// Advance is called and tasks only run when RunReady or Advance is called,
// always on the caller's goroutine.
type Manual struct {
	now    time.Time
	ready  []func()
	timers []manualTimer
	seq    int
}

type manualTimer struct {
	at   time.Time
	seq  int
	task func()
}

// NewManual creates a manual scheduler with an arbitrary fixed start time.
func NewManual() *Manual {
	return &Manual{
		now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Execute queues task to run on the next RunReady pass.
func (m *Manual) Execute(task func()) {
	m.ready = append(m.ready, task)
}

// ExecuteAfter queues task to run once Advance has moved time past delay.
func (m *Manual) ExecuteAfter(task func(), delay time.Duration) {
	m.seq++
	m.timers = append(m.timers, manualTimer{at: m.now.Add(delay), seq: m.seq, task: task})
}

// Now returns the simulated current time.
func (m *Manual) Now() time.Time {
	return m.now
}

// RunReady runs every queued task, including tasks queued by tasks it runs,
// and returns the number executed.
func (m *Manual) RunReady() int {
	ran := 0
	for len(m.ready) > 0 {
		task := m.ready[0]
		m.ready = m.ready[1:]
		task()
		ran++
	}
	return ran
}

// Advance moves simulated time forward, promoting due timers in firing order
// and running everything that becomes ready.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now.Add(d)
	ran := 0
	for {
		idx := m.nextDue(target)
		if idx < 0 {
			break
		}
		t := m.timers[idx]
		m.timers = append(m.timers[:idx], m.timers[idx+1:]...)
		if t.at.After(m.now) {
			m.now = t.at
		}
		m.ready = append(m.ready, t.task)
		ran += m.RunReady()
	}
	m.now = target
	ran += m.RunReady()
	return ran
}

// nextDue returns the index of the earliest timer due at or before limit,
// breaking ties by submission order.
func (m *Manual) nextDue(limit time.Time) int {
	best := -1
	for i, t := range m.timers {
		if t.at.After(limit) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := m.timers[best]
		if t.at.Before(b.at) || (t.at.Equal(b.at) && t.seq < b.seq) {
			best = i
		}
	}
	return best
}
