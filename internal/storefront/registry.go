package storefront

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/render"
	"github.com/angelmondragon/storefront/internal/toast"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// RegistryParams configure a session registry.
type RegistryParams struct {
	Catalog  *catalog.Catalog
	Renderer *render.Renderer
	Toast    toast.Options
	Recorder Recorder
	IdleTTL  time.Duration
	// MaxSessions caps live sessions; Open fails once it is reached and a sweep frees nothing.
	MaxSessions int
	Now         func() time.Time
}

// Registry tracks the live sessions, one per page load.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	catalog  *catalog.Catalog
	renderer *render.Renderer
	toastOpt toast.Options
	recorder Recorder
	ttl      time.Duration
	max      int
	now      func() time.Time
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "registry requires a catalog")
	}
	if params.Renderer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "registry requires a renderer")
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = DefaultIdleTTL
	}
	if params.MaxSessions <= 0 {
		params.MaxSessions = DefaultMaxSessions
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Toast.Recorder == nil && params.Recorder != nil {
		params.Toast.Recorder = params.Recorder
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		catalog:  params.Catalog,
		renderer: params.Renderer,
		toastOpt: params.Toast,
		recorder: params.Recorder,
		ttl:      params.IdleTTL,
		max:      params.MaxSessions,
		now:      params.Now,
	}, nil
}

// Open starts a fresh session with an empty cart and a closed drawer. At capacity it sweeps
// idle sessions first and fails with a rate limit error if none could be evicted.
func (r *Registry) Open() (*Session, error) {
	if r.Len() >= r.max {
		r.Sweep(r.now())
	}

	sess, err := NewSession(SessionParams{
		ID:       uuid.New(),
		Catalog:  r.catalog,
		Renderer: r.renderer,
		Toasts:   toast.NewQueue(r.toastOpt),
		Recorder: r.recorder,
		Now:      r.now,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if len(r.sessions) >= r.max {
		r.mu.Unlock()
		sess.Close()
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many open sessions").
			WithDetails(map[string]any{"max_sessions": r.max})
	}
	r.sessions[sess.ID()] = sess
	n := len(r.sessions)
	r.mu.Unlock()

	r.reportActive(n)
	return sess, nil
}

// Get looks up a live session.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return sess, nil
}

// Lookup parses raw and returns the matching session.
func (r *Registry) Lookup(raw string) (*Session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "session not found")
	}
	return r.Get(id)
}

// Sweep drops every session idle for longer than the TTL and returns how many went.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, sess := range r.sessions {
		if sess.IdleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	r.reportActive(n)
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close drops every session and stops its timers.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	r.reportActive(0)
}

func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

func (r *Registry) Renderer() *render.Renderer {
	return r.renderer
}

func (r *Registry) reportActive(n int) {
	if r.recorder != nil {
		r.recorder.SessionsActive(n)
	}
}
