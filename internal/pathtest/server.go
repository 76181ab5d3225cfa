// Package pathtest provides an in-process stand-in for the path-search service.
//
// Handlers can be held open per query so tests can order responses
// deterministically and observe what the client sent.
package pathtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RunPayload is what the fake /run answers with
type RunPayload struct {
	Status      string   `json:"status"`
	Links       []string `json:"links,omitempty"`
	ElapsedTime float64  `json:"elapsed_time,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// OK builds a successful run payload
func OK(elapsed float64, links ...string) RunPayload {
	return RunPayload{Status: "OK", Links: links, ElapsedTime: elapsed}
}

// Failed builds a non-OK run payload
func Failed(message string) RunPayload {
	return RunPayload{Status: "ERROR", Message: message}
}

// Server is a fake path-search service
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	suggestions map[string][]string
	acHolds     map[string]*gate
	acStatus    int
	queries     []string

	run       RunPayload
	runStatus int
	runHold   *gate
	runForms  []url.Values
	runDone   int

	cancels int
}

// New starts a fake server; it is closed when the test ends
func New(t testing.TB) *Server {
	s := &Server{
		suggestions: make(map[string][]string),
		acHolds:     make(map[string]*gate),
		acStatus:    http.StatusOK,
		run:         OK(0.5, "Start", "End"),
		runStatus:   http.StatusOK,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/autocomplete", s.autocompleteHandler)
	r.Post("/run", s.runHandler)
	r.Post("/cancel", s.cancelHandler)

	s.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		s.releaseAll()
		s.Close()
	})
	return s
}

// releaseAll opens every gate so Close does not wait on held handlers
func (s *Server) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.acHolds {
		g.open()
	}
	if s.runHold != nil {
		s.runHold.open()
	}
}

// SetSuggestions sets the titles returned for an exact query
func (s *Server) SetSuggestions(q string, titles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions[q] = titles
}

// FailAutocomplete makes /autocomplete answer with status
func (s *Server) FailAutocomplete(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acStatus = status
}

// gate blocks handlers until opened
type gate struct {
	ch   chan struct{}
	once sync.Once
}

func newGate() *gate {
	return &gate{ch: make(chan struct{})}
}

func (g *gate) open() {
	g.once.Do(func() { close(g.ch) })
}

// HoldAutocomplete blocks responses for q until release is called
func (s *Server) HoldAutocomplete(q string) (release func()) {
	g := newGate()
	s.mu.Lock()
	s.acHolds[q] = g
	s.mu.Unlock()
	return g.open
}

// SetRun sets what /run answers with
func (s *Server) SetRun(p RunPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = p
	s.runStatus = http.StatusOK
}

// FailRun makes /run answer with an HTTP error status and message
func (s *Server) FailRun(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = RunPayload{Message: message}
	s.runStatus = status
}

// HoldRun blocks /run until release is called or /cancel arrives
func (s *Server) HoldRun() (release func()) {
	g := newGate()
	s.mu.Lock()
	s.runHold = g
	s.mu.Unlock()
	return g.open
}

// Queries returns every autocomplete query received, in arrival order
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// RunForms returns the form of every /run received
func (s *Server) RunForms() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.runForms...)
}

// RunsCompleted counts /run handlers that wrote a response
func (s *Server) RunsCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runDone
}

// CancelCount returns how many /cancel notices arrived
func (s *Server) CancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

// WaitFor polls cond until it holds or timeout passes
func (s *Server) WaitFor(cond func(*Server) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond(s) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (s *Server) autocompleteHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	s.mu.Lock()
	s.queries = append(s.queries, q)
	hold := s.acHolds[q]
	status := s.acStatus
	titles, ok := s.suggestions[q]
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold.ch:
		case <-r.Context().Done():
			return
		}
	}

	if status != http.StatusOK {
		http.Error(w, "autocomplete unavailable", status)
		return
	}
	if !ok {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, titles)
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.runForms = append(s.runForms, r.PostForm)
	hold := s.runHold
	payload := s.run
	status := s.runStatus
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold.ch:
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	s.runDone++
	s.mu.Unlock()
	writeJSON(w, status, payload)
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.cancels++
	hold := s.runHold
	s.runHold = nil
	s.mu.Unlock()

	if hold != nil {
		hold.open()
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
