// Package debounce collapses bursts of calls so only the last one of a quiet
// window reaches the backend.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a caller whose call was replaced by a newer one
// before its window elapsed.
var ErrSuperseded = errors.New("debounce: superseded by a newer call")

// Debouncer runs at most one pending call at a time.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending chan struct{}
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do waits for the debounce window and then runs fn, unless another Do
// arrives first. fn runs on the caller's goroutine.
func (d *Debouncer) Do(ctx context.Context, fn func(context.Context) error) error {
	d.mu.Lock()
	if d.pending != nil {
		close(d.pending)
	}
	mine := make(chan struct{})
	d.pending = mine
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-mine:
		return ErrSuperseded
	case <-ctx.Done():
		d.release(mine)
		return ctx.Err()
	case <-timer.C:
	}

	// The timer and a newer call can race; the newer call wins.
	if !d.release(mine) {
		return ErrSuperseded
	}
	return fn(ctx)
}

func (d *Debouncer) release(mine chan struct{}) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != mine {
		return false
	}
	d.pending = nil
	return true
}

// Group hands out one Debouncer per key, typically a console session.
type Group struct {
	delay time.Duration
	mu    sync.Mutex
	byKey map[string]*Debouncer
}

func NewGroup(delay time.Duration) *Group {
	return &Group{delay: delay, byKey: make(map[string]*Debouncer)}
}

func (g *Group) Get(key string) *Debouncer {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.byKey[key]
	if !ok {
		d = New(g.delay)
		g.byKey[key] = d
	}
	return d
}

// Forget drops the debouncer of key.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.byKey, key)
}
