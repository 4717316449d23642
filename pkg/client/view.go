package client

import (
	"context"
	"sync"
)

// ViewState is the lifecycle phase of a View.
type ViewState int

const (
	// ViewIdle means no load has been started yet.
	ViewIdle ViewState = iota
	// ViewLoading means the first load is in flight and there is no data.
	ViewLoading
	// ViewReady means the last completed load succeeded.
	ViewReady
	// ViewFailed means the last completed load failed and no earlier data
	// is available.
	ViewFailed
)

// Snapshot is a point-in-time read of a View.
type Snapshot[T any] struct {
	State ViewState
	// Data is the most recent successful result. It survives failed
	// refreshes so callers can keep showing the previous numbers.
	Data *T
	// Err is the error of the last completed load, nil after a success.
	Err error
	// Stale is true when Data is from an earlier load and the latest
	// refresh failed.
	Stale bool
	// Refreshing is true while a load is in flight over existing data.
	Refreshing bool
}

// FetchFunc loads a fresh value.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// View holds one remote value and its loading lifecycle. Concurrent
// refreshes are resolved last-request-wins: starting a new refresh cancels
// the in-flight one, and a superseded result never overwrites a newer one.
type View[T any] struct {
	fetch FetchFunc[T]

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	snap       Snapshot[T]
}

// NewView creates a view around the given fetch function.
func NewView[T any](fetch FetchFunc[T]) *View[T] {
	return &View[T]{fetch: fetch}
}

// Snapshot returns the current state. The returned value is a copy.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Refresh loads a fresh value, blocking until this load completes or is
// superseded. When superseded it returns the context error of its own
// cancelled attempt and leaves the newer load's result in place.
func (v *View[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.generation++
	gen := v.generation

	if v.snap.Data == nil {
		v.snap.State = ViewLoading
	}
	v.snap.Refreshing = true
	v.mu.Unlock()

	data, err := v.fetch(ctx)
	cancel()

	v.mu.Lock()
	defer v.mu.Unlock()

	// A newer refresh started while this one ran. Its outcome wins.
	if gen != v.generation {
		if err == nil {
			err = context.Canceled
		}
		return err
	}

	v.snap.Refreshing = false
	if err != nil {
		v.snap.Err = err
		if v.snap.Data != nil {
			// Keep showing the previous result, marked stale.
			v.snap.State = ViewReady
			v.snap.Stale = true
		} else {
			v.snap.State = ViewFailed
		}
		return err
	}

	v.snap.Data = data
	v.snap.Err = nil
	v.snap.Stale = false
	v.snap.State = ViewReady
	return nil
}
