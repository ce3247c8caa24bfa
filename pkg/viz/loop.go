package viz

import (
	"context"
	"sync/atomic"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// DefaultFrameInterval is the loop cadence, about 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop drives a View from a single goroutine. It advances the view once per
// interval and runs commands posted with [Loop.Do] between frames, so the
// view is never touched concurrently.
type Loop struct {
	view     *View
	interval time.Duration

	cmds    chan command
	done    chan struct{}
	started atomic.Bool
}

type command struct {
	fn   func(*View) error
	errc chan error
}

// NewLoop returns a loop for view. A non-positive interval selects
// [DefaultFrameInterval].
func NewLoop(view *View, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		view:     view,
		interval: interval,
		cmds:     make(chan command),
		done:     make(chan struct{}),
	}
}

// Run ticks the view until ctx is cancelled or a command tears the view
// down, then tears it down and returns. Run must be called at most once;
// later calls return immediately.
func (l *Loop) Run(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	defer close(l.done)
	defer l.view.Teardown()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.view.Frame()
		case c := <-l.cmds:
			c.errc <- c.fn(l.view)
			if l.view.Closed() {
				return
			}
		}
	}
}

// Do runs fn on the loop goroutine and returns its error. It fails with
// SESSION_CLOSED once the loop has exited, and with ctx's error if ctx ends
// first.
func (l *Loop) Do(ctx context.Context, fn func(*View) error) error {
	errc := make(chan error, 1)
	select {
	case l.cmds <- command{fn: fn, errc: errc}:
	case <-l.done:
		return errs.New(errs.ErrCodeSessionClosed, "session loop has stopped")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Interval returns the frame cadence.
func (l *Loop) Interval() time.Duration { return l.interval }
