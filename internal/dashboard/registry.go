package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Registry maps session token ids to their live dashboards.
type Registry struct {
	deps        Deps
	idleTimeout time.Duration
	log         *logrus.Logger

	mu         sync.Mutex
	dashboards map[string]*Dashboard
	stopped    bool

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewRegistry(deps Deps, idleTimeout time.Duration) *Registry {
	return &Registry{
		deps:        deps,
		idleTimeout: idleTimeout,
		log:         deps.Log,
		dashboards:  make(map[string]*Dashboard),
		stopChan:    make(chan struct{}),
	}
}

// Start runs the idle janitor. Without an idle timeout dashboards live until closed.
func (r *Registry) Start() {
	if r.idleTimeout <= 0 {
		return
	}
	interval := r.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}

	r.wg.Add(1)
	go r.janitor(interval)
	r.log.Infof("Dashboard registry started (idle timeout: %v)", r.idleTimeout)
}

func (r *Registry) janitor(interval time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.EvictIdle(time.Now()); n > 0 {
				r.log.Infof("Evicted %d idle dashboards", n)
			}
		case <-r.stopChan:
			return
		}
	}
}

// Stop closes every dashboard and the janitor. Safe to call multiple times.
func (r *Registry) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	dashboards := r.dashboards
	r.dashboards = make(map[string]*Dashboard)
	r.mu.Unlock()

	close(r.stopChan)
	r.wg.Wait()

	for _, d := range dashboards {
		d.Close()
	}
	r.log.Info("Dashboard registry stopped")
}

// Open establishes a session for token (empty for anonymous) and returns its
// running dashboard once the session is ready. It returns ErrClosed once the
// registry is stopped.
func (r *Registry) Open(ctx context.Context, token string) (*Dashboard, error) {
	if r.isStopped() {
		return nil, ErrClosed
	}

	d := New(r.deps, token)
	d.Start()
	if err := d.WaitReady(ctx); err != nil {
		d.Close()
		return nil, err
	}

	tokenID := d.Session().TokenID

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		d.Close()
		return nil, ErrClosed
	}
	if existing, ok := r.dashboards[tokenID]; ok {
		r.mu.Unlock()
		d.Close()
		existing.touch()
		return existing, nil
	}
	r.dashboards[tokenID] = d
	r.mu.Unlock()

	return d, nil
}

// Acquire returns the dashboard of tokenID, reopening it from token when it
// is not running, e.g. after a restart or an idle eviction.
func (r *Registry) Acquire(ctx context.Context, tokenID, token string) (*Dashboard, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	d, ok := r.dashboards[tokenID]
	r.mu.Unlock()
	if ok {
		d.touch()
		return d, nil
	}
	return r.Open(ctx, token)
}

// Close stops and forgets the dashboard of tokenID.
func (r *Registry) Close(tokenID string) {
	r.mu.Lock()
	d, ok := r.dashboards[tokenID]
	delete(r.dashboards, tokenID)
	r.mu.Unlock()

	if ok {
		d.Close()
	}
}

// EvictIdle closes dashboards unused since before now minus the idle timeout.
func (r *Registry) EvictIdle(now time.Time) int {
	cutoff := now.Add(-r.idleTimeout)

	var idle []*Dashboard
	r.mu.Lock()
	for tokenID, d := range r.dashboards {
		if d.LastUsed().Before(cutoff) {
			idle = append(idle, d)
			delete(r.dashboards, tokenID)
		}
	}
	r.mu.Unlock()

	for _, d := range idle {
		d.Close()
	}
	return len(idle)
}

func (r *Registry) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dashboards)
}
