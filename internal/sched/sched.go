// Package sched provides the cooperative single-thread scheduler the window
// engine runs on. All host state mutation and client callback invocation
// happen on tasks submitted here, so no per-host locking is needed.
package sched

import "time"

// Scheduler runs tasks on a single logical thread, in submission order.
type Scheduler interface {
	// Execute queues task to run as soon as possible.
	Execute(task func())
	// ExecuteAfter queues task to run once delay has elapsed.
	ExecuteAfter(task func(), delay time.Duration)
	// Now returns the scheduler's notion of the current time.
	Now() time.Time
}
