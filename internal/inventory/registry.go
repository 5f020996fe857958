package inventory

import (
	"sync"
	"time"

	"github.com/odyssey-erp/inventory-console/internal/api"
)

// SessionGauge receives the number of live consoles.
type SessionGauge interface {
	SetActiveConsoles(n int)
}

type registryEntry struct {
	console  *Console
	lastUsed time.Time
}

// Registry holds one Console per browser session. Consoles idle for longer
// than the TTL are closed and forgotten.
type Registry struct {
	client *api.Client
	cfg    Config
	opts   []Option
	ttl    time.Duration
	gauge  SessionGauge
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry builds a registry that creates consoles with cfg and opts.
func NewRegistry(client *api.Client, cfg Config, ttl time.Duration, gauge SessionGauge, opts ...Option) *Registry {
	return &Registry{
		client:  client,
		cfg:     cfg,
		opts:    opts,
		ttl:     ttl,
		gauge:   gauge,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Get returns the console for sessionID, creating it when needed. The
// second result is true when the console was just created and has not
// loaded anything yet.
func (r *Registry) Get(sessionID string) (*Console, bool) {
	now := r.now()
	r.mu.Lock()
	expired := r.sweepLocked(now)
	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &registryEntry{console: NewConsole(r.client, r.cfg, r.opts...)}
		r.entries[sessionID] = entry
	}
	entry.lastUsed = now
	size := len(r.entries)
	r.mu.Unlock()

	r.report(size)
	closeAll(expired)
	return entry.console, !ok
}

// Forget closes and drops the console for sessionID.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	size := len(r.entries)
	r.mu.Unlock()
	if ok {
		entry.console.Close()
	}
	r.report(size)
}

// Sweep closes consoles idle for longer than the TTL.
func (r *Registry) Sweep() {
	r.mu.Lock()
	expired := r.sweepLocked(r.now())
	size := len(r.entries)
	r.mu.Unlock()
	r.report(size)
	closeAll(expired)
}

// Len returns the number of live consoles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close closes every console.
func (r *Registry) Close() {
	r.mu.Lock()
	consoles := make([]*Console, 0, len(r.entries))
	for id, entry := range r.entries {
		consoles = append(consoles, entry.console)
		delete(r.entries, id)
	}
	r.mu.Unlock()
	r.report(0)
	closeAll(consoles)
}

func (r *Registry) sweepLocked(now time.Time) []*Console {
	if r.ttl <= 0 {
		return nil
	}
	var expired []*Console
	for id, entry := range r.entries {
		if now.Sub(entry.lastUsed) > r.ttl {
			expired = append(expired, entry.console)
			delete(r.entries, id)
		}
	}
	return expired
}

func (r *Registry) report(size int) {
	if r.gauge != nil {
		r.gauge.SetActiveConsoles(size)
	}
}

func closeAll(consoles []*Console) {
	for _, c := range consoles {
		c.Close()
	}
}
