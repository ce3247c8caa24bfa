package viz

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop(newView(t), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l, cancel
}

func TestLoopTicksAndRunsCommands(t *testing.T) {
	l, _ := startLoop(t)
	ctx := context.Background()

	if err := l.Do(ctx, func(v *View) error {
		_, err := v.SetSnapshot(people())
		return err
	}); err != nil {
		t.Fatalf("Do(SetSnapshot): %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		var steps int
		if err := l.Do(ctx, func(v *View) error {
			steps = v.Stats().Steps
			return nil
		}); err != nil {
			t.Fatalf("Do(Stats): %v", err)
		}
		if steps > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("loop did not advance the simulation")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoopReturnsCommandError(t *testing.T) {
	l, _ := startLoop(t)
	want := errors.New("boom")
	if err := l.Do(context.Background(), func(*View) error { return want }); err != want {
		t.Errorf("Do() = %v, want %v", err, want)
	}
}

func TestLoopCancelTearsDown(t *testing.T) {
	view := newView(t)
	if _, err := view.SetSnapshot(people()); err != nil {
		t.Fatalf("SetSnapshot: %v", err)
	}
	sim := view.Simulation()

	l := NewLoop(view, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
	if !view.Closed() || !sim.Stopped() {
		t.Error("view not torn down after cancel")
	}

	steps := sim.Steps()
	time.Sleep(10 * time.Millisecond)
	if sim.Steps() != steps {
		t.Error("simulation advanced after the loop stopped")
	}

	err := l.Do(context.Background(), func(*View) error { return nil })
	if !errs.Is(err, errs.ErrCodeSessionClosed) {
		t.Errorf("Do after stop: err = %v, want SESSION_CLOSED", err)
	}
}

func TestLoopTeardownCommandStopsLoop(t *testing.T) {
	l, _ := startLoop(t)
	if err := l.Do(context.Background(), func(v *View) error {
		v.Teardown()
		return nil
	}); err != nil {
		t.Fatalf("Do(Teardown): %v", err)
	}
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after Teardown")
	}
}

func TestLoopDoHonorsContext(t *testing.T) {
	l := NewLoop(newView(t), 0)
	if l.Interval() != DefaultFrameInterval {
		t.Errorf("Interval = %v, want %v", l.Interval(), DefaultFrameInterval)
	}

	// Not running: nothing receives the command.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Do(ctx, func(*View) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() = %v, want context.Canceled", err)
	}
}

func TestLoopRunOnce(t *testing.T) {
	l, cancel := startLoop(t)
	cancel()
	<-l.Done()

	returned := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("second Run did not return")
	}
}
