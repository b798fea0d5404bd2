package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Registry keeps the wizards opened over HTTP. Drafts stay in memory only and
// are dropped when the wizard is closed, completes, or sits idle too long.
type Registry struct {
	mu       sync.Mutex
	sink     Sink
	opts     []Option
	idleTTL  time.Duration
	now      func() time.Time
	sessions map[string]*session
	opened   atomic.Uint64
}

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewRegistry builds a registry whose wizards submit to sink. opts apply to
// every wizard it opens.
func NewRegistry(sink Sink, idleTTL time.Duration, opts ...Option) *Registry {
	return &Registry{
		sink:     sink,
		opts:     opts,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Open starts a wizard and returns its id.
func (r *Registry) Open(opts ...Option) (string, *Controller, error) {
	all := append(append([]Option{}, r.opts...), opts...)
	ctrl, err := Open(r.sink, all...)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &session{ctrl: ctrl, lastSeen: r.now()}
	r.mu.Unlock()
	r.opened.Add(1)
	return id, ctrl, nil
}

// Opened counts every wizard opened since the registry was created.
func (r *Registry) Opened() uint64 {
	return r.opened.Load()
}

// Get returns the wizard and marks it as recently used.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = r.now()
	return s.ctrl, nil
}

// Close discards the wizard's draft and forgets it.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.ctrl.Close()
	return nil
}

// Forget drops a wizard without closing it, used once it has completed.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len is the number of open wizards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes wizards idle for longer than the TTL and returns how many it closed.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	var expired []*Controller
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s.ctrl)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, ctrl := range expired {
		ctrl.Close()
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
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
