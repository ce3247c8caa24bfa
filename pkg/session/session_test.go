package session

import (
	"context"
	"sync"
	"testing"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

func newView(t *testing.T) *viz.View {
	t.Helper()
	v, err := viz.NewView(force.Viewport{Width: 800, Height: 600}, viz.DefaultConfig())
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return v
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestCreateGetDelete(t *testing.T) {
	reg := NewRegistry(WithFrameInterval(time.Millisecond))
	defer reg.Close()

	sess, err := reg.Create(newView(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session has no id")
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}

	got, err := reg.Get(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}

	snap := graph.Snapshot{Nodes: []graph.Node{{ID: "a"}, {ID: "b"}}, Links: []graph.Link{{Source: "a", Target: "b"}}}
	if err := sess.Do(context.Background(), func(v *viz.View) error {
		_, err := v.SetSnapshot(snap)
		return err
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	if err := reg.Delete(sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	select {
	case <-sess.Done():
	default:
		t.Error("loop still running after Delete")
	}
	if _, err := reg.Get(sess.ID); !errs.Is(err, errs.ErrCodeSessionNotFound) {
		t.Errorf("Get after Delete: err = %v, want SESSION_NOT_FOUND", err)
	}
	if err := reg.Delete(sess.ID); !errs.Is(err, errs.ErrCodeSessionNotFound) {
		t.Errorf("second Delete: err = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestUniqueIDs(t *testing.T) {
	reg := NewRegistry()
	defer reg.Close()
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		s, err := reg.Create(newView(t))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
	}
	if ids := reg.IDs(); len(ids) != 10 {
		t.Errorf("IDs = %d, want 10", len(ids))
	}
}

func TestMaxSessions(t *testing.T) {
	reg := NewRegistry(WithMaxSessions(1))
	defer reg.Close()

	if _, err := reg.Create(newView(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	view := newView(t)
	if _, err := reg.Create(view); !errs.Is(err, errs.ErrCodeSessionLimit) {
		t.Errorf("Create beyond the cap: err = %v, want SESSION_LIMIT", err)
	}
	if !view.Closed() {
		t.Error("rejected view was not torn down")
	}
}

func TestExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	reg := NewRegistry(WithTTL(time.Minute))
	reg.now = clock.now
	defer reg.Close()

	a, err := reg.Create(newView(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	a.touch(clock.now())
	b, err := reg.Create(newView(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b.touch(clock.now())

	clock.advance(30 * time.Second)
	b.touch(clock.now())
	clock.advance(45 * time.Second)

	if n := reg.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if _, err := reg.Get(a.ID); !errs.Is(err, errs.ErrCodeSessionNotFound) {
		t.Errorf("expired session: err = %v, want SESSION_NOT_FOUND", err)
	}
	if _, err := reg.Get(b.ID); err != nil {
		t.Errorf("live session: %v", err)
	}
}

func TestCleanupRemovesStoppedSessions(t *testing.T) {
	reg := NewRegistry(WithTTL(0))
	defer reg.Close()

	s, err := reg.Create(newView(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Do(context.Background(), func(v *viz.View) error {
		v.Teardown()
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	<-s.Done()

	if n := reg.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
}

func TestCloseStopsEverything(t *testing.T) {
	reg := NewRegistry()
	var sessions []*Session
	for i := 0; i < 3; i++ {
		s, err := reg.Create(newView(t))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		sessions = append(sessions, s)
	}

	reg.Close()
	if reg.Len() != 0 {
		t.Errorf("Len after Close = %d, want 0", reg.Len())
	}
	for _, s := range sessions {
		select {
		case <-s.Done():
		default:
			t.Errorf("session %s still running", s.ID)
		}
	}
	if _, err := reg.Create(newView(t)); !errs.Is(err, errs.ErrCodeSessionClosed) {
		t.Errorf("Create after Close: err = %v, want SESSION_CLOSED", err)
	}
}

type countingSessionHooks struct {
	observability.NoopSessionHooks
	mu     sync.Mutex
	opened int
	closed int
}

func (h *countingSessionHooks) OnSessionOpen(context.Context, string) {
	h.mu.Lock()
	h.opened++
	h.mu.Unlock()
}

func (h *countingSessionHooks) OnSessionClose(context.Context, string, time.Duration) {
	h.mu.Lock()
	h.closed++
	h.mu.Unlock()
}

func TestSessionHooks(t *testing.T) {
	hooks := &countingSessionHooks{}
	observability.SetSessionHooks(hooks)
	defer observability.Reset()

	reg := NewRegistry()
	s, err := reg.Create(newView(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = reg.Delete(s.ID)
	reg.Close()

	if hooks.opened != 1 || hooks.closed != 1 {
		t.Errorf("opened = %d, closed = %d; want 1, 1", hooks.opened, hooks.closed)
	}
}
