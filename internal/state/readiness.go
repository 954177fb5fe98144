package state

import "sync/atomic"

// Readiness reports whether the process has finished starting up. While
// false, sensors defer classification of upstream entities that have not
// produced usable data yet instead of declaring them unsupported.
type Readiness struct {
	started atomic.Bool
}

// Started reports whether startup has completed.
func (r *Readiness) Started() bool {
	return r.started.Load()
}

// SetStarted marks startup as complete.
func (r *Readiness) SetStarted() {
	r.started.Store(true)
}
