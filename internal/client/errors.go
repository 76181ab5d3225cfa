package client

import (
	"context"
	"errors"
	"fmt"
)

// Kind categorizes request failures for handling
type Kind int

const (
	KindUnknown Kind = iota
	// KindAborted means the operation's token was cancelled; callers treat it as a silent no-op
	KindAborted
	// KindNetwork covers dial/transport failures, timeouts and undecodable bodies
	KindNetwork
	// KindServer means the server answered with an HTTP error status
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that does not succeed
type Error struct {
	Kind    Kind
	Op      string // "autocomplete", "run" or "cancel"
	Status  int    // HTTP status for KindServer
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// IsAborted reports whether err came from a cancelled token
func IsAborted(err error) bool {
	return KindOf(err) == KindAborted
}

// classify turns a transport error into an *Error, checking the caller's token first
// so a cancel racing with a failure still reads as an abort
func classify(ctx context.Context, op string, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindAborted, Op: op, Message: "request aborted", Cause: ctx.Err()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Op: op, Message: "request timed out", Cause: err}
	}
	return &Error{Kind: KindNetwork, Op: op, Message: "request failed", Cause: err}
}
