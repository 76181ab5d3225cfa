package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikipath/internal/domain"
	"wikipath/internal/pathtest"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(&Config{BaseURL: baseURL, AutocompleteTimeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(&Config{BaseURL: "localhost:5000/api"})
	require.Error(t, err)
}

func TestNewFillsDefaults(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5000", c.BaseURL())
}

func TestAutocompleteEncodesQuery(t *testing.T) {
	srv := pathtest.New(t)
	srv.SetSuggestions("São Paulo & co", "São Paulo", "São Paulo FC")
	c := newTestClient(t, srv.URL)

	titles, err := c.Autocomplete(context.Background(), "São Paulo & co")
	require.NoError(t, err)
	assert.Equal(t, []string{"São Paulo", "São Paulo FC"}, titles)
	assert.Equal(t, []string{"São Paulo & co"}, srv.Queries())
}

func TestAutocompleteUnknownQueryIsEmpty(t *testing.T) {
	srv := pathtest.New(t)
	c := newTestClient(t, srv.URL)

	titles, err := c.Autocomplete(context.Background(), "zz")
	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)
}

func TestAutocompleteNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	titles, err := newTestClient(t, srv.URL).Autocomplete(context.Background(), "li")
	require.NoError(t, err)
	assert.Equal(t, []string{}, titles)
}

func TestAutocompleteAborted(t *testing.T) {
	srv := pathtest.New(t)
	srv.HoldAutocomplete("li")
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Autocomplete(ctx, "li")
		done <- err
	}()

	require.True(t, srv.WaitFor(func(s *pathtest.Server) bool { return len(s.Queries()) == 1 }, 2*time.Second))
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, IsAborted(err), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled request did not settle")
	}
}

func TestAutocompleteServerError(t *testing.T) {
	srv := pathtest.New(t)
	srv.FailAutocomplete(http.StatusServiceUnavailable)
	c := newTestClient(t, srv.URL)

	_, err := c.Autocomplete(context.Background(), "li")
	require.Error(t, err)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindServer, ce.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, ce.Status)
	assert.Equal(t, "autocomplete unavailable", ce.Message)
}

func TestAutocompleteInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Autocomplete(context.Background(), "li")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Autocomplete(context.Background(), "li")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.False(t, IsAborted(err))
}

func TestTimeoutIsNetworkNotAbort(t *testing.T) {
	srv := pathtest.New(t)
	srv.HoldAutocomplete("li")

	c, err := New(&Config{BaseURL: srv.URL, AutocompleteTimeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Autocomplete(context.Background(), "li")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestRunSuccess(t *testing.T) {
	srv := pathtest.New(t)
	srv.SetRun(pathtest.OK(1.234, "New York City", "Albert Einstein"))
	c := newTestClient(t, srv.URL)

	res, err := c.Run(context.Background(), domain.RunRequest{Start: "New York City", End: "Albert Einstein", K: 3, TimeLimit: 30, MaxDepth: 4})
	require.NoError(t, err)

	success, ok := res.(domain.Success)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, []string{"New York City", "Albert Einstein"}, success.Links)
	assert.InDelta(t, 1.234, success.ElapsedSeconds, 1e-9)

	forms := srv.RunForms()
	require.Len(t, forms, 1)
	assert.Equal(t, "New York City", forms[0].Get("start"))
	assert.Equal(t, "Albert Einstein", forms[0].Get("end"))
	assert.Equal(t, "3", forms[0].Get("k"))
	assert.Equal(t, "30", forms[0].Get("time_limit"))
	assert.Equal(t, "4", forms[0].Get("max_depth"))
}

func TestRunFailureIsResultNotError(t *testing.T) {
	srv := pathtest.New(t)
	srv.SetRun(pathtest.Failed("Start Wikipedia page does not exist."))
	c := newTestClient(t, srv.URL)

	res, err := c.Run(context.Background(), domain.RunRequest{Start: "Nope", End: "Linux", K: 1, TimeLimit: 1, MaxDepth: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.Failure{Message: "Start Wikipedia page does not exist."}, res)
}

func TestRunFailureWithoutMessageUsesStatus(t *testing.T) {
	srv := pathtest.New(t)
	srv.SetRun(pathtest.RunPayload{Status: "NO_PATH_FOUND"})
	c := newTestClient(t, srv.URL)

	res, err := c.Run(context.Background(), domain.RunRequest{Start: "a", End: "b"})
	require.NoError(t, err)
	assert.Equal(t, domain.Failure{Message: "NO_PATH_FOUND"}, res)
}

func TestRunHTTPErrorCarriesMessage(t *testing.T) {
	srv := pathtest.New(t)
	srv.FailRun(http.StatusInternalServerError, "graph not loaded")
	c := newTestClient(t, srv.URL)

	_, err := c.Run(context.Background(), domain.RunRequest{Start: "a", End: "b"})
	require.Error(t, err)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindServer, ce.Kind)
	assert.Equal(t, "graph not loaded", ce.Message)
}

func TestRunAborted(t *testing.T) {
	srv := pathtest.New(t)
	srv.HoldRun()
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Run(ctx, domain.RunRequest{Start: "a", End: "b"})
		done <- err
	}()

	require.True(t, srv.WaitFor(func(s *pathtest.Server) bool { return len(s.RunForms()) == 1 }, 2*time.Second))
	cancel()

	select {
	case err := <-done:
		assert.True(t, IsAborted(err), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("aborted run did not settle")
	}
}

func TestCancelNotice(t *testing.T) {
	srv := pathtest.New(t)
	c := newTestClient(t, srv.URL)

	require.NoError(t, c.Cancel(context.Background()))
	assert.Equal(t, 1, srv.CancelCount())
}

func TestBaseURLWithPathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/wiki-search/")
	require.NoError(t, c.Cancel(context.Background()))
	assert.Equal(t, "/wiki-search/cancel", gotPath)
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{Kind: KindNetwork, Op: "run", Message: "request failed", Cause: errors.New("connection refused")}
	assert.Equal(t, "run: request failed: connection refused", err.Error())
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
