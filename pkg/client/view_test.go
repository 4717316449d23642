package client

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestViewFirstLoad(t *testing.T) {
	view := NewView(func(ctx context.Context) (*int, error) {
		n := 42
		return &n, nil
	})

	if got := view.Snapshot(); got.State != ViewIdle {
		t.Errorf("initial state = %v, want ViewIdle", got.State)
	}

	if err := view.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	snap := view.Snapshot()
	if snap.State != ViewReady {
		t.Errorf("state = %v, want ViewReady", snap.State)
	}
	if snap.Data == nil || *snap.Data != 42 {
		t.Errorf("data = %v, want 42", snap.Data)
	}
	if snap.Stale || snap.Refreshing {
		t.Errorf("snapshot = %+v, want fresh and settled", snap)
	}
}

func TestViewFirstLoadFailure(t *testing.T) {
	loadErr := errors.New("boom")
	view := NewView(func(ctx context.Context) (*int, error) {
		return nil, loadErr
	})

	if err := view.Refresh(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("Refresh() error = %v, want %v", err, loadErr)
	}

	snap := view.Snapshot()
	if snap.State != ViewFailed {
		t.Errorf("state = %v, want ViewFailed", snap.State)
	}
	if snap.Data != nil {
		t.Errorf("data = %v, want nil", snap.Data)
	}
}

// A failed refresh over existing data keeps the old data, marked stale.
func TestViewRefreshFailureKeepsPriorData(t *testing.T) {
	calls := 0
	view := NewView(func(ctx context.Context) (*int, error) {
		calls++
		if calls == 1 {
			n := 42
			return &n, nil
		}
		return nil, errors.New("backend down")
	})

	if err := view.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error: %v", err)
	}
	if err := view.Refresh(context.Background()); err == nil {
		t.Fatal("second Refresh() expected error")
	}

	snap := view.Snapshot()
	if snap.State != ViewReady {
		t.Errorf("state = %v, want ViewReady with prior data", snap.State)
	}
	if snap.Data == nil || *snap.Data != 42 {
		t.Errorf("data = %v, want the prior 42", snap.Data)
	}
	if !snap.Stale {
		t.Error("Stale = false, want true after failed refresh")
	}
	if snap.Err == nil {
		t.Error("Err = nil, want the refresh error preserved")
	}
}

func TestViewRecoversFromStale(t *testing.T) {
	calls := 0
	view := NewView(func(ctx context.Context) (*int, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("blip")
		}
		n := calls
		return &n, nil
	})

	view.Refresh(context.Background())
	view.Refresh(context.Background())
	if err := view.Refresh(context.Background()); err != nil {
		t.Fatalf("third Refresh() error: %v", err)
	}

	snap := view.Snapshot()
	if snap.Stale {
		t.Error("Stale = true after successful refresh, want false")
	}
	if snap.Err != nil {
		t.Errorf("Err = %v, want nil after recovery", snap.Err)
	}
	if snap.Data == nil || *snap.Data != 3 {
		t.Errorf("data = %v, want 3", snap.Data)
	}
}

// Starting a second refresh supersedes the first: the slower first load's
// result is discarded and the newer one wins.
func TestViewLastRequestWins(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	view := NewView(func(ctx context.Context) (*int, error) {
		select {
		case <-firstStarted:
			// Second call: return immediately.
			n := 2
			return &n, nil
		default:
			close(firstStarted)
		}

		// First call: block until released, then notice cancellation.
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := 1
		return &n, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		firstErr <- view.Refresh(context.Background())
	}()

	<-firstStarted
	if err := view.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() error: %v", err)
	}

	close(release)
	wg.Wait()

	if err := <-firstErr; err == nil {
		t.Error("superseded Refresh() returned nil, want an error")
	}

	snap := view.Snapshot()
	if snap.Data == nil || *snap.Data != 2 {
		t.Errorf("data = %v, want 2 from the newer refresh", snap.Data)
	}
	if snap.State != ViewReady || snap.Stale {
		t.Errorf("snapshot = %+v, want ready and fresh", snap)
	}
}
