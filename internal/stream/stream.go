// Package stream tracks the at-most-one-active operation of a logical request stream.
//
// Every autocomplete field and the search run own one Stream. Begin cancels the
// previous operation before handing out a new one, and a continuation may only
// write state after Settle confirms its operation is still the active one.
package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Op is one pending operation: a cancellation token plus its identity
type Op struct {
	id     string
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Context is the token the operation's request must be bound to
func (o *Op) Context() context.Context { return o.ctx }

// ID is a unique identity used in logs and events
func (o *Op) ID() string { return o.id }

// Generation increases by one for every Begin on the same stream
func (o *Op) Generation() uint64 { return o.gen }

// Cancelled reports whether the token has been cancelled
func (o *Op) Cancelled() bool { return o.ctx.Err() != nil }

// Stream holds the current operation of one logical request stream
type Stream struct {
	mu      sync.Mutex
	name    string
	parent  context.Context
	gen     uint64
	current *Op
	closed  bool
}

// New creates a stream whose operations derive from context.Background
func New(name string) *Stream {
	return NewWithContext(context.Background(), name)
}

// NewWithContext creates a stream whose operations are cancelled with parent
func NewWithContext(parent context.Context, name string) *Stream {
	return &Stream{name: name, parent: parent}
}

// Begin cancels the active operation, if any, and starts a new one.
// The old token is cancelled before Begin returns.
func (s *Stream) Begin() *Op {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}

	s.gen++
	ctx, cancel := context.WithCancel(s.parent)
	op := &Op{
		id:     s.name + "-" + uuid.NewString(),
		gen:    s.gen,
		ctx:    ctx,
		cancel: cancel,
	}
	if s.closed {
		cancel()
		return op
	}
	s.current = op
	return op
}

// Cancel cancels the active operation and returns it.
// It returns nil when nothing was active, so repeated calls are no-ops.
func (s *Stream) Cancel() *Op {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := s.current
	if op == nil {
		return nil
	}
	s.current = nil
	op.cancel()
	return op
}

// IsActive reports whether op is the stream's current, uncancelled operation
func (s *Stream) IsActive(op *Op) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isActive(op)
}

func (s *Stream) isActive(op *Op) bool {
	return op != nil && s.current == op && op.ctx.Err() == nil
}

// Settle marks op as finished if it is still active and reports whether it was.
// Only a caller that gets true may act on op's result.
func (s *Stream) Settle(op *Op) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActive(op) {
		return false
	}
	s.current = nil
	// release the context's resources; the request already finished
	op.cancel()
	return true
}

// Active returns the current operation, or nil
func (s *Stream) Active() *Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close cancels the active operation; operations begun afterwards start cancelled
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
}
