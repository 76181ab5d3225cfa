//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeServer answers the three path-search endpoints for a running binary
type fakeServer struct {
	*httptest.Server

	mu      sync.Mutex
	titles  []string
	run     map[string]any
	status  int
	hold    chan struct{}
	runs    int
	cancels int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		titles: []string{"Albert Einstein", "Albania", "Alan Turing", "New York City", "New Zealand"},
		run: map[string]any{
			"status":       "OK",
			"links":        []string{"New York City", "Physics", "Albert Einstein"},
			"elapsed_time": 1.25,
		},
		status: http.StatusOK,
	}

	r := chi.NewRouter()
	r.Get("/autocomplete", fs.autocomplete)
	r.Post("/run", fs.runSearch)
	r.Post("/cancel", fs.cancel)
	fs.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		fs.release()
		fs.Close()
	})
	return fs
}

// failWith makes /run answer with a non-OK status payload
func (fs *fakeServer) failWith(message string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.run = map[string]any{"status": "ERROR", "message": message}
}

// holdRuns blocks /run until /cancel arrives
func (fs *fakeServer) holdRuns() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.hold = make(chan struct{})
}

func (fs *fakeServer) release() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.hold != nil {
		close(fs.hold)
		fs.hold = nil
	}
}

func (fs *fakeServer) counts() (runs, cancels int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.runs, fs.cancels
}

func (fs *fakeServer) autocomplete(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	matches := []string{}
	fs.mu.Lock()
	for _, title := range fs.titles {
		if strings.HasPrefix(strings.ToLower(title), q) {
			matches = append(matches, title)
		}
	}
	fs.mu.Unlock()
	writeJSON(w, http.StatusOK, matches)
}

func (fs *fakeServer) runSearch(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.runs++
	hold := fs.hold
	payload := fs.run
	status := fs.status
	fs.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, status, payload)
}

func (fs *fakeServer) cancel(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.cancels++
	fs.mu.Unlock()
	fs.release()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
