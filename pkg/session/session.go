// Package session keeps live visualization sessions for hosts that serve
// many viewers at once.
//
// A session owns one [viz.View] and the [viz.Loop] that drives it. The
// registry assigns each session a random id, starts its loop on a goroutine
// of its own, and tears it down when the session is deleted, expires, or the
// registry is closed.
//
// # Usage
//
//	reg := session.NewRegistry(
//	    session.WithTTL(30*time.Minute),
//	    session.WithMaxSessions(256),
//	)
//	defer reg.Close()
//
//	sess, err := reg.Create(view)
//	if err != nil {
//	    return err
//	}
//	err = sess.Do(ctx, func(v *viz.View) error {
//	    return v.PointerDown(x, y)
//	})
//
// Expired sessions are removed by [Registry.Cleanup], which [Registry.Run]
// calls periodically.
package session

import (
	"context"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// Default limits.
const (
	// DefaultTTL is how long a session may sit idle before it expires.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxSessions caps concurrently live sessions.
	DefaultMaxSessions = 256

	// DefaultCleanupInterval is how often Run sweeps expired sessions.
	DefaultCleanupInterval = time.Minute
)

// =============================================================================
// Session
// =============================================================================

// Session is one live view and the loop driving it.
type Session struct {
	ID        string
	CreatedAt time.Time

	loop     *viz.Loop
	cancel   context.CancelFunc
	lastUsed atomic.Int64 // unix nanos
}

// Do runs fn on the session's loop goroutine and marks the session used.
func (s *Session) Do(ctx context.Context, fn func(*viz.View) error) error {
	s.touch(time.Now())
	return s.loop.Do(ctx, fn)
}

// LastUsed reports when the session last ran a command.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// Done is closed once the session's loop has stopped.
func (s *Session) Done() <-chan struct{} { return s.loop.Done() }

func (s *Session) touch(t time.Time) { s.lastUsed.Store(t.UnixNano()) }

// stop cancels the loop and waits for it to tear the view down.
func (s *Session) stop() {
	s.cancel()
	<-s.loop.Done()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	select {
	case <-s.loop.Done():
		return true
	default:
	}
	return ttl > 0 && now.Sub(s.LastUsed()) > ttl
}

// =============================================================================
// Registry
// =============================================================================

// Registry tracks live sessions by id. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	ttl      time.Duration
	max      int
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets the idle timeout. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(r *Registry) { r.ttl = d }
}

// WithMaxSessions caps live sessions. Zero or less means no cap.
func WithMaxSessions(n int) Option {
	return func(r *Registry) { r.max = n }
}

// WithFrameInterval sets the loop cadence of new sessions.
func WithFrameInterval(d time.Duration) Option {
	return func(r *Registry) { r.interval = d }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		max:      DefaultMaxSessions,
		interval: viz.DefaultFrameInterval,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers view under a fresh id and starts its loop. The registry
// owns the view from here on.
func (r *Registry) Create(view *viz.View) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		view.Teardown()
		return nil, errs.New(errs.ErrCodeSessionClosed, "session registry is closed")
	}
	if r.max > 0 && len(r.sessions) >= r.max {
		view.Teardown()
		return nil, errs.New(errs.ErrCodeSessionLimit, "too many sessions (max %d)", r.max)
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := r.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		loop:      viz.NewLoop(view, r.interval),
		cancel:    cancel,
	}
	s.touch(now)
	r.sessions[s.ID] = s
	go s.loop.Run(ctx)

	observability.Session().OnSessionOpen(ctx, s.ID)
	r.logger.Debug("session opened", "id", s.ID, "live", len(r.sessions))
	return s, nil
}

// Get returns the live session with id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	if s.expired(r.now(), r.ttl) {
		r.remove(s)
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q expired", id)
	}
	return s, nil
}

// Delete stops the session with id and forgets it.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	r.remove(s)
	return nil
}

// remove stops s, forgets it, and reports the close once.
func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	_, ok := r.sessions[s.ID]
	delete(r.sessions, s.ID)
	live := len(r.sessions)
	r.mu.Unlock()

	s.stop()
	if ok {
		observability.Session().OnSessionClose(context.Background(), s.ID, r.now().Sub(s.CreatedAt))
		r.logger.Debug("session closed", "id", s.ID, "live", live)
	}
}

// Cleanup removes expired and stopped sessions and returns how many it
// removed.
func (r *Registry) Cleanup() int {
	now := r.now()
	r.mu.Lock()
	var stale []*Session
	for _, s := range r.sessions {
		if s.expired(now, r.ttl) {
			stale = append(stale, s)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		r.remove(s)
	}
	if len(stale) > 0 {
		r.logger.Info("expired sessions removed", "count", len(stale))
	}
	return len(stale)
}

// Run calls Cleanup every interval until ctx is cancelled. A non-positive
// interval selects DefaultCleanupInterval.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// IDs returns the registered session ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Close stops every session. Create fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.Unlock()

	for _, s := range all {
		r.remove(s)
	}
}
