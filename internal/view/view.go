// Package view carries the fetch lifecycle shared by every resource
// controller: a phase machine, per-fetch cancellation, and stale-result
// rejection so an older fetch can never overwrite a newer one.
package view

import (
	"context"
	"errors"
	"sync"
)

// Phase is where a controller is in its fetch lifecycle.
type Phase int

const (
	// Idle means no fetch has started yet.
	Idle Phase = iota
	// Loading means a fetch is in flight and no data has been committed.
	Loading
	// Ready means the last fetch committed and the data is current.
	Ready
	// Failed means the last fetch ended in an error.
	Failed
	// Mutating means a write is in flight; further writes are rejected
	// until it settles.
	Mutating
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Mutating:
		return "mutating"
	}
	return "unknown"
}

// ErrMutationInFlight rejects a second write while one is pending.
var ErrMutationInFlight = errors.New("a mutation is already in flight")

// ErrClosed rejects work on a closed controller.
var ErrClosed = errors.New("view is closed")

// Lifecycle is embedded by controllers. The zero value is ready to use.
//
// Each BeginFetch cancels the context of any fetch still in flight and
// hands back a generation token; FinishFetch commits only if that token is
// still current, so a slow older response is dropped instead of clobbering
// newer data.
type Lifecycle struct {
	mu     sync.Mutex
	phase  Phase
	gen    uint64
	cancel context.CancelFunc
	err    error
	closed bool
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Err returns the error recorded by the last failed fetch, or nil.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// BeginFetch starts a new fetch: any in-flight fetch is cancelled, the
// phase moves to Loading, and the returned context and token identify this
// fetch until FinishFetch.
func (l *Lifecycle) BeginFetch(ctx context.Context) (context.Context, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, 0, ErrClosed
	}
	if l.cancel != nil {
		l.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.gen++
	l.phase = Loading
	return ctx, l.gen, nil
}

// FinishFetch settles the fetch identified by token. It reports whether the
// result was committed; a false return means a newer fetch superseded this
// one and its result must be discarded.
func (l *Lifecycle) FinishFetch(token uint64, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || token != l.gen {
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if err != nil {
		l.phase = Failed
		l.err = err
	} else {
		l.phase = Ready
		l.err = nil
	}
	return true
}

// BeginMutation gates a write. Only one write may be pending at a time.
func (l *Lifecycle) BeginMutation() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	if l.phase == Mutating {
		return ErrMutationInFlight
	}
	l.phase = Mutating
	return nil
}

// EndMutation settles the pending write. The phase returns to Ready; a
// failed write keeps the last committed data current.
func (l *Lifecycle) EndMutation() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == Mutating {
		l.phase = Ready
	}
}

// Close cancels any in-flight fetch and rejects all further work. It is
// idempotent.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
