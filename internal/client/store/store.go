// Package store implements the async state container shared by every domain
// view (profile, cart, catalog, orders). Each operation moves through
// idle → pending → succeeded|failed; success replaces state wholesale from
// the server response, failure records a structured error and leaves the
// previous state untouched.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/avidals/bocado/internal/client/api"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Mode says whether an operation mutates the underlying server resource.
// Mutations on one store are serialized in strict submission order, so a
// second mutation can never be applied over state that is one response
// behind. Reads run unordered.
type Mode int

const (
	Read Mode = iota
	Mutate
)

// Store holds one domain view of server-derived state.
type Store[S any] struct {
	mu     sync.RWMutex
	state  S
	status map[string]Status
	errs   map[string]*api.Error

	queue fifoGate
}

func New[S any]() *Store[S] {
	return &Store[S]{
		status: make(map[string]Status),
		errs:   make(map[string]*api.Error),
	}
}

// Do runs one operation through the lifecycle. fn performs the server call
// and returns an apply function that replaces state from the response; on
// error nothing is applied. The structured error is both recorded on the
// store and returned for callers that want to react inline.
func (s *Store[S]) Do(ctx context.Context, op string, mode Mode, fn func(ctx context.Context) (func(*S), error)) error {
	if mode == Mutate {
		s.queue.enter()
		defer s.queue.leave()
	}

	s.begin(op)

	apply, err := fn(ctx)
	if err != nil {
		aerr := asAPIError(err)
		s.fail(op, aerr)
		return aerr
	}

	s.succeed(op, apply)
	return nil
}

// Apply runs a local, synchronous state change outside the operation
// lifecycle (one-shot flags, clearing a detail view).
func (s *Store[S]) Apply(fn func(*S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Snapshot returns a copy of the current state. Slices and maps inside are
// shared; treat the snapshot as read-only.
func (s *Store[S]) Snapshot() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status reports the lifecycle phase of the given operation.
func (s *Store[S]) Status(op string) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.status[op]; ok {
		return st
	}
	return StatusIdle
}

// Err returns the recorded error for the operation, or nil.
func (s *Store[S]) Err(op string) *api.Error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[op]
}

// Reset returns the store to its zero state with all operations idle.
// The session controller calls this on logout so a future login never sees
// another user's data.
func (s *Store[S]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero S
	s.state = zero
	s.status = make(map[string]Status)
	s.errs = make(map[string]*api.Error)
}

func (s *Store[S]) begin(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[op] = StatusPending
	delete(s.errs, op)
}

func (s *Store[S]) fail(op string, err *api.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[op] = StatusFailed
	s.errs[op] = err
}

func (s *Store[S]) succeed(op string, apply func(*S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if apply != nil {
		apply(&s.state)
	}
	s.status[op] = StatusSucceeded
	delete(s.errs, op)
}

func asAPIError(err error) *api.Error {
	var e *api.Error
	if errors.As(err, &e) {
		return e
	}
	return &api.Error{Kind: api.KindUnknown, Message: err.Error()}
}

// fifoGate admits callers strictly in the order they arrived. sync.Mutex
// makes no ordering promise for waiters, so tickets are handed out up front
// and served in sequence.
type fifoGate struct {
	mu            sync.Mutex
	cond          *sync.Cond
	next, serving uint64
}

func (g *fifoGate) enter() {
	g.mu.Lock()
	if g.cond == nil {
		g.cond = sync.NewCond(&g.mu)
	}
	ticket := g.next
	g.next++
	for ticket != g.serving {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

func (g *fifoGate) leave() {
	g.mu.Lock()
	g.serving++
	if g.cond != nil {
		g.cond.Broadcast()
	}
	g.mu.Unlock()
}
