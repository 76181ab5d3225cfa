// Package runner owns the lifecycle of a search run: submit, settle, cancel and dismiss.
//
// Mode transitions only happen here. A response whose operation was cancelled or
// superseded is dropped without touching the mode or the presenter.
package runner

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"wikipath/internal/client"
	"wikipath/internal/domain"
	"wikipath/internal/eventbus"
	"wikipath/internal/stream"
)

// DefaultCancelTimeout bounds the fire-and-forget cancel notice
const DefaultCancelTimeout = 5 * time.Second

var (
	// ErrMissingEndpoint is returned when start or end is blank
	ErrMissingEndpoint = errors.New("start and end are required")
	// ErrRunInProgress is returned by Submit while loading under the ignore policy
	ErrRunInProgress = errors.New("a search is already running")
)

// Service is the remote side of a run
type Service interface {
	Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error)
	Cancel(ctx context.Context) error
}

// Presenter renders what the controller decides
type Presenter interface {
	ShowLoader()
	HideLoader()
	ShowResults(domain.Success)
	ShowError(message string)
	CloseModal()
}

// Options tunes a Controller
type Options struct {
	Resubmit      string
	CancelTimeout time.Duration
	Bus           eventbus.EventBus
}

// Call performs the blocking /run request; run it off the UI goroutine
type Call func() Outcome

// Outcome is the settled result of a Call
type Outcome struct {
	Op     *stream.Op
	Result domain.RunResult
	Err    error
}

// Controller is the run state machine
type Controller struct {
	service   Service
	presenter Presenter
	stream    *stream.Stream
	opts      Options

	mode    domain.Mode
	result  domain.RunResult
	lastErr error

	notices sync.WaitGroup
	// closed once the most recent cancel notice has settled
	lastNotice <-chan struct{}
}

// New creates a run controller in Idle mode
func New(service Service, presenter Presenter, opts Options) *Controller {
	if opts.Resubmit == "" {
		opts.Resubmit = domain.ResubmitIgnore
	}
	if opts.CancelTimeout <= 0 {
		opts.CancelTimeout = DefaultCancelTimeout
	}
	return &Controller{
		service:   service,
		presenter: presenter,
		stream:    stream.New("run"),
		opts:      opts,
		mode:      domain.ModeIdle,
	}
}

// Mode returns the current UI mode
func (c *Controller) Mode() domain.Mode { return c.mode }

// Result returns the last settled run result, or nil
func (c *Controller) Result() domain.RunResult { return c.result }

// LastError returns the last transport failure, cleared on the next submit
func (c *Controller) LastError() error { return c.lastErr }

// Submit starts a run and returns the request to perform
func (c *Controller) Submit(req domain.RunRequest) (Call, error) {
	req.Start = strings.TrimSpace(req.Start)
	req.End = strings.TrimSpace(req.End)
	if req.Start == "" || req.End == "" {
		return nil, ErrMissingEndpoint
	}

	if c.mode == domain.ModeLoading {
		if c.opts.Resubmit != domain.ResubmitRestart {
			return nil, ErrRunInProgress
		}
		if old := c.stream.Cancel(); old != nil {
			c.publish(eventbus.RunCancelledEvent{OpID: old.ID()})
			c.sendCancelNotice(old.ID())
		}
	}
	// the server holds one global cancel flag, so a new run is only issued
	// once the notice for an earlier one has settled
	noticeDone := c.lastNotice
	if c.mode == domain.ModeShowingError {
		c.presenter.CloseModal()
	}

	op := c.stream.Begin()
	c.mode = domain.ModeLoading
	c.lastErr = nil
	c.presenter.ShowLoader()
	c.publish(eventbus.RunStartedEvent{OpID: op.ID(), Request: req})
	log.Printf("Run %s: searching %q -> %q (k=%d, time_limit=%d, max_depth=%d)",
		op.ID(), req.Start, req.End, req.K, req.TimeLimit, req.MaxDepth)

	service := c.service
	return func() Outcome {
		if noticeDone != nil {
			select {
			case <-noticeDone:
			case <-op.Context().Done():
				return Outcome{Op: op, Err: op.Context().Err()}
			}
		}
		res, err := service.Run(op.Context(), req)
		return Outcome{Op: op, Result: res, Err: err}
	}, nil
}

// Apply settles an outcome. It reports whether the outcome belonged to the
// active run; stale and aborted outcomes change nothing.
func (c *Controller) Apply(o Outcome) bool {
	if !c.stream.Settle(o.Op) {
		return false
	}

	c.presenter.HideLoader()

	if o.Err != nil {
		c.mode = domain.ModeIdle
		if client.IsAborted(o.Err) {
			return true
		}
		c.lastErr = o.Err
		log.Printf("Run %s: request failed: %v", o.Op.ID(), o.Err)
		c.publish(eventbus.RunErroredEvent{OpID: o.Op.ID(), Err: o.Err})
		return true
	}

	c.result = o.Result
	switch res := o.Result.(type) {
	case domain.Success:
		c.mode = domain.ModeShowingResults
		c.presenter.ShowResults(res)
		log.Printf("Run %s: path of %d links in %.2fs", o.Op.ID(), len(res.Links), res.ElapsedSeconds)
		c.publish(eventbus.RunSucceededEvent{OpID: o.Op.ID(), Result: res})
	case domain.Failure:
		c.mode = domain.ModeShowingError
		c.presenter.ShowError(res.Message)
		log.Printf("Run %s: server reported: %s", o.Op.ID(), res.Message)
		c.publish(eventbus.RunFailedEvent{OpID: o.Op.ID(), Message: res.Message})
	default:
		c.mode = domain.ModeIdle
		c.lastErr = errors.New("run returned no result")
		log.Printf("Run %s: %v", o.Op.ID(), c.lastErr)
	}
	return true
}

// Cancel aborts a loading run and notifies the server without waiting for it.
// It reports whether a run was cancelled.
func (c *Controller) Cancel() bool {
	if c.mode != domain.ModeLoading {
		return false
	}

	op := c.stream.Cancel()
	c.mode = domain.ModeIdle
	c.presenter.HideLoader()
	if op == nil {
		return false
	}

	log.Printf("Run %s: cancelled by user", op.ID())
	c.publish(eventbus.RunCancelledEvent{OpID: op.ID()})
	c.sendCancelNotice(op.ID())
	return true
}

// Dismiss closes the error modal. The scroll lock is always released.
func (c *Controller) Dismiss() bool {
	c.presenter.CloseModal()
	if c.mode != domain.ModeShowingError {
		return false
	}
	c.mode = domain.ModeIdle
	c.publish(eventbus.ErrorDismissedEvent{})
	return true
}

// Close tears the controller down, cancelling a loading run
func (c *Controller) Close() {
	if c.mode == domain.ModeLoading {
		c.Cancel()
	}
	c.stream.Close()
}

// Wait blocks until every cancel notice sent so far has settled
func (c *Controller) Wait() {
	c.notices.Wait()
}

// sendCancelNotice posts /cancel on its own context; the result is only logged
func (c *Controller) sendCancelNotice(opID string) {
	done := make(chan struct{})
	c.lastNotice = done
	c.notices.Add(1)
	go func() {
		defer c.notices.Done()
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), c.opts.CancelTimeout)
		defer cancel()

		err := c.service.Cancel(ctx)
		if err != nil {
			log.Printf("Run %s: cancel notice failed: %v", opID, err)
		}
		c.publish(eventbus.CancelNoticeSentEvent{OpID: opID, Err: err})
	}()
}

func (c *Controller) publish(e eventbus.DomainEvent) {
	if c.opts.Bus != nil {
		c.opts.Bus.Publish(e)
	}
}
