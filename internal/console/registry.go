package console

import (
	"context"
	"sync"
	"time"

	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var activeWorkspaces = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "console_workspaces_active",
	Help: "Number of console sessions holding a workspace",
})

// RegistryConfig tunes workspace eviction.
type RegistryConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		IdleTimeout:   2 * time.Hour,
		SweepInterval: 5 * time.Minute,
	}
}

// Registry maps console session ids to workspaces.
type Registry struct {
	log        *zap.SugaredLogger
	client     adminapi.Caller
	origin     string
	lang       language.Tag
	cfg        RegistryConfig
	now        func() time.Time
	workspaces map[string]*Workspace
	onEvict    []func(sessionID string)
	mu         sync.RWMutex
}

func NewRegistry(client adminapi.Caller, publicOrigin string, lang language.Tag, cfg ...RegistryConfig) *Registry {
	config := DefaultRegistryConfig()
	if len(cfg) > 0 {
		config = cfg[0]
	}
	return &Registry{
		log:        logger.GetLogger().Named("console_registry"),
		client:     client,
		origin:     publicOrigin,
		lang:       lang,
		cfg:        config,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	now := r.now()

	r.mu.RLock()
	w, ok := r.workspaces[sessionID]
	r.mu.RUnlock()
	if ok {
		w.touch(now)
		return w
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.workspaces[sessionID]; ok {
		w.touch(now)
		return w
	}
	w = newWorkspace(sessionID, r.client, r.origin, r.lang, now)
	r.workspaces[sessionID] = w
	activeWorkspaces.Inc()
	r.log.Debugw("Workspace created", "sessionID", logger.MaskSensitiveString(sessionID, 4, 4))
	return w
}

// OnEvict registers fn to be called, outside the registry lock, with the
// id of every swept workspace.
func (r *Registry) OnEvict(fn func(sessionID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = append(r.onEvict, fn)
}

// Count returns the number of live workspaces.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// Sweep evicts workspaces idle for longer than the configured timeout and
// returns how many were dropped.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	var dropped []string
	for id, w := range r.workspaces {
		if w.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			dropped = append(dropped, id)
		}
	}
	hooks := append([]func(string){}, r.onEvict...)
	r.mu.Unlock()

	if len(dropped) == 0 {
		return 0
	}
	activeWorkspaces.Sub(float64(len(dropped)))
	r.log.Infow("Evicted idle workspaces", "count", len(dropped))
	for _, id := range dropped {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return len(dropped)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
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
