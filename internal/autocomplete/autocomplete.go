// Package autocomplete keeps one field's suggestion list in step with what the user typed.
//
// Every change clears the list at once and supersedes the field's pending lookup, so
// at most one lookup per field is in flight and a stale response can never land.
package autocomplete

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"wikipath/internal/client"
	"wikipath/internal/domain"
	"wikipath/internal/eventbus"
	"wikipath/internal/stream"
)

// DefaultMinQueryLength is the shortest trimmed query that is sent; lower settings are raised to it
const DefaultMinQueryLength = domain.MinQueryLength

// Fetcher looks up title suggestions
type Fetcher interface {
	Autocomplete(ctx context.Context, q string) ([]string, error)
}

// Options tunes a Controller
type Options struct {
	MinQueryLength int
	MaxSuggestions int // 0 keeps everything
	Bus            eventbus.EventBus
}

// Lookup performs the blocking request for one change; run it off the UI goroutine
type Lookup func() Result

// Result is the settled outcome of a Lookup
type Result struct {
	Field  domain.Field
	Op     *stream.Op
	Query  string
	Titles []string
	Err    error
}

// Controller owns one field's input value, suggestion list and lookup stream
type Controller struct {
	field     domain.Field
	fetcher   Fetcher
	stream    *stream.Stream
	opts      Options
	value     string
	list      []string
	highlight int
}

// New creates a controller for field
func New(field domain.Field, fetcher Fetcher, opts Options) *Controller {
	if opts.MinQueryLength < DefaultMinQueryLength {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	return &Controller{
		field:     field,
		fetcher:   fetcher,
		stream:    stream.New(string(field)),
		opts:      opts,
		highlight: -1,
	}
}

// Field returns the field this controller serves
func (c *Controller) Field() domain.Field { return c.field }

// Value returns the input's current text
func (c *Controller) Value() string { return c.value }

// SetValue replaces the input text without triggering a lookup
func (c *Controller) SetValue(v string) { c.value = v }

// Suggestions returns the current list; callers must not modify it
func (c *Controller) Suggestions() []string { return c.list }

// Highlighted returns the highlighted index, or -1
func (c *Controller) Highlighted() int { return c.highlight }

// Pending reports whether a lookup is in flight
func (c *Controller) Pending() bool { return c.stream.Active() != nil }

// Change handles a new input value. It returns nil when no request is needed.
func (c *Controller) Change(value string) Lookup {
	c.value = value
	c.clear()

	q := strings.TrimSpace(value)
	if utf8.RuneCountInString(q) < c.opts.MinQueryLength {
		// a short query must also leave the list empty, so drop any pending lookup
		c.stream.Cancel()
		return nil
	}

	op := c.stream.Begin()
	field, fetcher := c.field, c.fetcher
	return func() Result {
		titles, err := fetcher.Autocomplete(op.Context(), q)
		return Result{Field: field, Op: op, Query: q, Titles: titles, Err: err}
	}
}

// Apply fills the list from r if r's lookup is still the active one.
// It reports whether the list changed.
func (c *Controller) Apply(r Result) bool {
	if r.Field != c.field || !c.stream.Settle(r.Op) {
		return false
	}

	if r.Err != nil {
		if !client.IsAborted(r.Err) {
			log.Printf("Autocomplete %s: lookup for %q failed: %v", c.field, r.Query, r.Err)
		}
		return false
	}

	titles := r.Titles
	if c.opts.MaxSuggestions > 0 && len(titles) > c.opts.MaxSuggestions {
		titles = titles[:c.opts.MaxSuggestions]
	}
	c.list = append([]string(nil), titles...)
	c.highlight = -1

	if c.opts.Bus != nil {
		c.opts.Bus.Publish(eventbus.SuggestionsUpdatedEvent{Field: c.field, Query: r.Query, Count: len(c.list)})
	}
	return true
}

// Move shifts the highlight by delta, wrapping around the list
func (c *Controller) Move(delta int) {
	n := len(c.list)
	if n == 0 {
		return
	}
	if c.highlight < 0 {
		if delta > 0 {
			c.highlight = 0
		} else {
			c.highlight = n - 1
		}
		return
	}
	c.highlight = ((c.highlight+delta)%n + n) % n
}

// Accept writes suggestion i into the input and clears the list
func (c *Controller) Accept(i int) (string, bool) {
	if i < 0 || i >= len(c.list) {
		return "", false
	}
	c.value = c.list[i]
	c.clear()
	return c.value, true
}

// AcceptHighlighted accepts the highlighted suggestion, if any
func (c *Controller) AcceptHighlighted() (string, bool) {
	return c.Accept(c.highlight)
}

// Dismiss clears the list after an interaction outside the field
func (c *Controller) Dismiss() {
	c.clear()
}

// Close cancels the pending lookup; later lookups start cancelled
func (c *Controller) Close() {
	c.stream.Close()
	c.clear()
}

func (c *Controller) clear() {
	c.list = nil
	c.highlight = -1
}
