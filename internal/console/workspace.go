// Package console keeps the per-session state of the admin console. A
// workspace owns one catalog and the trip builder sessions opened by one
// browser session; handlers run every action under its lock, so a session
// sees the same one-action-at-a-time model as a single page.
package console

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/catalog"
	"github.com/OldiBike/mototrip-planner-sub000/internal/tripbuilder"
	"golang.org/x/text/language"
)

// Workspace is the state of one console session.
type Workspace struct {
	ID string

	mu      sync.Mutex
	client  adminapi.Caller
	origin  string
	lang    language.Tag
	catalog *catalog.Catalog
	trips   map[string]*tripbuilder.Session

	// lastSeen is read by the sweeper without taking mu, which a handler
	// may hold across a backend call.
	lastSeen atomic.Int64
}

func newWorkspace(id string, client adminapi.Caller, origin string, lang language.Tag, now time.Time) *Workspace {
	w := &Workspace{
		ID:      id,
		client:  client,
		origin:  origin,
		lang:    lang,
		catalog: catalog.New(client, lang),
		trips:   make(map[string]*tripbuilder.Session),
	}
	w.touch(now)
	return w
}

// Do runs fn with exclusive access to the workspace.
func (w *Workspace) Do(fn func(*Workspace) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w)
}

// Catalog returns the list controllers. Call it inside Do.
func (w *Workspace) Catalog() *catalog.Catalog {
	return w.catalog
}

// Trip returns the builder session of tripID, creating it on first use.
// Call it inside Do.
func (w *Workspace) Trip(tripID string) *tripbuilder.Session {
	s, ok := w.trips[tripID]
	if !ok {
		s = tripbuilder.NewSession(tripID, w.client, w.origin, w.lang)
		w.trips[tripID] = s
	}
	return s
}

// DropTrip forgets a builder session so the next visit starts fresh.
func (w *Workspace) DropTrip(tripID string) {
	delete(w.trips, tripID)
}

// OpenTrips lists the trip ids with a builder session.
func (w *Workspace) OpenTrips() []string {
	ids := make([]string, 0, len(w.trips))
	for id := range w.trips {
		ids = append(ids, id)
	}
	return ids
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) idleSince() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}
