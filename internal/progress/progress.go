// Package progress drives the cosmetic upload progress bar. The backend does
// not report byte progress, so the percentage only grows with elapsed time up
// to a ceiling until the request finishes.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

const stepPercent = 5

// Retention is how long a finished tracker waits for its poller before it
// is swept.
const Retention = 10 * time.Minute

// Snapshot is what the page polls.
type Snapshot struct {
	Percent int    `json:"percent"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Tracker is one upload in flight.
type Tracker struct {
	mu      sync.Mutex
	started time.Time
	tick    time.Duration
	ceiling int
	now     func() time.Time

	status   Status
	frozen   int
	message  string
	finished time.Time
}

func (t *Tracker) running() int {
	if t.tick <= 0 {
		return t.ceiling
	}
	pct := int(t.now().Sub(t.started)/t.tick) * stepPercent
	if pct > t.ceiling {
		return t.ceiling
	}
	return pct
}

// Snapshot returns the current percent and status.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.status {
	case StatusDone:
		return Snapshot{Percent: 100, Status: StatusDone, Message: t.message}
	case StatusFailed:
		return Snapshot{Percent: t.frozen, Status: StatusFailed, Message: t.message}
	default:
		return Snapshot{Percent: t.running(), Status: StatusRunning}
	}
}

// Done completes the bar.
func (t *Tracker) Done(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusRunning {
		return
	}
	t.status = StatusDone
	t.message = message
	t.finished = t.now()
}

// Fail freezes the bar where it stands.
func (t *Tracker) Fail(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusRunning {
		return
	}
	t.frozen = t.running()
	t.status = StatusFailed
	t.message = message
	t.finished = t.now()
}

func (t *Tracker) finishedBefore(cutoff time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status != StatusRunning && t.finished.Before(cutoff)
}

// Registry keeps trackers addressable by an opaque token.
type Registry struct {
	mu        sync.Mutex
	tick      time.Duration
	ceiling   int
	retention time.Duration
	now       func() time.Time
	trackers  map[string]*Tracker
}

func NewRegistry(tick time.Duration, ceiling int) *Registry {
	return &Registry{
		tick:      tick,
		ceiling:   ceiling,
		retention: Retention,
		now:       time.Now,
		trackers:  make(map[string]*Tracker),
	}
}

// Start registers a running tracker and returns its token. Expired
// trackers are swept on the way.
func (r *Registry) Start() (string, *Tracker) {
	r.Sweep()
	token := uuid.NewString()
	t := &Tracker{
		started: r.now(),
		tick:    r.tick,
		ceiling: r.ceiling,
		now:     r.now,
		status:  StatusRunning,
	}
	r.mu.Lock()
	r.trackers[token] = t
	r.mu.Unlock()
	return token, t
}

// Get looks a tracker up. Finished trackers are forgotten once read.
func (r *Registry) Get(token string) (Snapshot, bool) {
	r.mu.Lock()
	t, ok := r.trackers[token]
	r.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}
	snap := t.Snapshot()
	if snap.Status != StatusRunning {
		r.mu.Lock()
		delete(r.trackers, token)
		r.mu.Unlock()
	}
	return snap, true
}

// Len reports how many trackers are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// Sweep forgets trackers that finished longer than the retention ago and
// were never read. It returns how many were dropped.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for token, t := range r.trackers {
		if t.finishedBefore(cutoff) {
			delete(r.trackers, token)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
