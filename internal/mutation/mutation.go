// Package mutation turns one-shot remote operations into observable actions.
//
// An Action owns a single status/data/error slot. Every call to Mutate resets
// the slot to pending, records exactly one outcome and then settles. Calls may
// overlap; the slot then reflects whichever call wrote last.
package mutation

import (
	"context"
	"sync"
)

// Operation is a remote write: input in, output or failure out.
type Operation[In, Out any] func(ctx context.Context, in In) (Out, error)

// Options configures a single Mutate call. Every field is optional.
type Options[Out any] struct {
	OnSuccess func(out Out)
	OnError   func(err error)
	OnSettled func()
	// ThrowError returns the failure to the caller after OnError ran.
	// Without it failures are swallowed.
	ThrowError bool
}

// Snapshot is an immutable view of an Action's state.
type Snapshot[Out any] struct {
	Status Status
	// Outcome is the terminal status of the latest call, or StatusIdle while
	// that call is still pending.
	Outcome Status
	Data    Out
	Err     error
	// Seq identifies the call that produced this snapshot (1-based).
	Seq uint64
}

// Action wraps an Operation with status tracking and lifecycle callbacks.
type Action[In, Out any] struct {
	op Operation[In, Out]

	mu        sync.Mutex
	state     Snapshot[Out]
	seq       uint64
	listeners map[uint64]func(Snapshot[Out])
	nextID    uint64
}

// New returns an idle Action around op.
func New[In, Out any](op Operation[In, Out]) *Action[In, Out] {
	return &Action[In, Out]{
		op:        op,
		listeners: make(map[uint64]func(Snapshot[Out])),
	}
}

// Mutate runs the operation with in.
//
// On success the output is returned. On failure the error is returned only
// when ThrowError is set; otherwise Mutate returns the zero value and nil, and
// the failure is visible through Err and OnError. When several Options are
// given their callbacks run in argument order and ThrowError is set if any of
// them sets it.
func (a *Action[In, Out]) Mutate(ctx context.Context, in In, opts ...Options[Out]) (Out, error) {
	seq := a.begin()

	out, err := a.op(ctx, in)

	var zero Out
	if err != nil {
		a.transition(seq, func(s *Snapshot[Out]) {
			s.Status = StatusError
			s.Outcome = StatusError
			s.Data = zero
			s.Err = err
		})
		throw := false
		for _, o := range opts {
			if o.OnError != nil {
				o.OnError(err)
			}
			throw = throw || o.ThrowError
		}
		a.settle(seq, opts)
		if throw {
			return zero, err
		}
		return zero, nil
	}

	a.transition(seq, func(s *Snapshot[Out]) {
		s.Status = StatusSuccess
		s.Outcome = StatusSuccess
		s.Data = out
		s.Err = nil
	})
	for _, o := range opts {
		if o.OnSuccess != nil {
			o.OnSuccess(out)
		}
	}
	a.settle(seq, opts)
	return out, nil
}

func (a *Action[In, Out]) begin() uint64 {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	var zero Out
	a.transition(seq, func(s *Snapshot[Out]) {
		s.Status = StatusPending
		s.Outcome = StatusIdle
		s.Data = zero
		s.Err = nil
	})
	return seq
}

func (a *Action[In, Out]) settle(seq uint64, opts []Options[Out]) {
	a.transition(seq, func(s *Snapshot[Out]) {
		s.Status = StatusSettled
	})
	for _, o := range opts {
		if o.OnSettled != nil {
			o.OnSettled()
		}
	}
}

// transition applies fn to the shared slot and notifies listeners with the
// resulting snapshot. Listeners run outside the lock.
func (a *Action[In, Out]) transition(seq uint64, fn func(s *Snapshot[Out])) {
	a.mu.Lock()
	fn(&a.state)
	a.state.Seq = seq
	snap := a.state
	listeners := make([]func(Snapshot[Out]), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Subscribe registers fn to be called on every status transition and returns
// a function that removes it.
func (a *Action[In, Out]) Subscribe(fn func(Snapshot[Out])) (unsubscribe func()) {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.listeners[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.listeners, id)
			a.mu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (a *Action[In, Out]) Snapshot() Snapshot[Out] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Status returns the current lifecycle phase.
func (a *Action[In, Out]) Status() Status { return a.Snapshot().Status }

// Data returns the output of the latest successful call, or the zero value.
func (a *Action[In, Out]) Data() Out { return a.Snapshot().Data }

// Err returns the failure of the latest failed call, or nil.
func (a *Action[In, Out]) Err() error { return a.Snapshot().Err }

// IsPending reports whether the latest call has not produced an outcome yet.
func (a *Action[In, Out]) IsPending() bool { return a.Status() == StatusPending }

// IsSuccess reports whether the latest call succeeded.
func (a *Action[In, Out]) IsSuccess() bool { return a.Snapshot().Outcome == StatusSuccess }

// IsError reports whether the latest call failed.
func (a *Action[In, Out]) IsError() bool { return a.Snapshot().Outcome == StatusError }

// IsSettled reports whether the latest call has fully completed.
func (a *Action[In, Out]) IsSettled() bool { return a.Status() == StatusSettled }
