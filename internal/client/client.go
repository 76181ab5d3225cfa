// Package client talks to the path-search service over HTTP.
//
// Every call is bound to the caller's context. Cancelling that context makes the
// call return an *Error of KindAborted instead of a network or server error.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wikipath/internal/domain"
)

// StatusOK is the application-level status of a successful run
const StatusOK = "OK"

// maxErrorBody caps how much of an error response is read for its message
const maxErrorBody = 4 << 10

// Config holds configuration options for the client
type Config struct {
	// BaseURL is the service root, e.g. http://127.0.0.1:5000
	BaseURL string

	// RunTimeout bounds /run; 0 leaves it to the server's own time limit
	RunTimeout time.Duration

	// AutocompleteTimeout bounds /autocomplete
	AutocompleteTimeout time.Duration

	// UserAgent is sent on every request
	UserAgent string

	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:             "http://127.0.0.1:5000",
		AutocompleteTimeout: 10 * time.Second,
		UserAgent:           "wikipath",
	}
}

// Client issues autocomplete, run and cancel requests.
// It is safe for concurrent use.
type Client struct {
	config     *Config
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client, filling zero values from DefaultConfig
func New(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     &cfg,
		baseURL:    base,
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Autocomplete fetches title suggestions for q, in server order
func (c *Client) Autocomplete(ctx context.Context, q string) ([]string, error) {
	const op = "autocomplete"

	reqCtx, cancel := withTimeout(ctx, c.config.AutocompleteTimeout)
	defer cancel()

	resp, err := c.do(reqCtx, ctx, op, http.MethodGet, "/autocomplete", url.Values{"q": {q}}, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var titles []string
	if err := json.NewDecoder(resp.Body).Decode(&titles); err != nil {
		if ctx.Err() != nil {
			return nil, classify(ctx, op, err)
		}
		return nil, &Error{Kind: KindNetwork, Op: op, Message: "invalid suggestion payload", Cause: err}
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// runResponse is the /run wire format
type runResponse struct {
	Status      string   `json:"status"`
	Links       []string `json:"links"`
	ElapsedTime float64  `json:"elapsed_time"`
	Message     string   `json:"message"`
}

// Run submits a search. A non-OK application status is a domain.Failure, not an error.
func (c *Client) Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error) {
	const op = "run"

	reqCtx, cancel := withTimeout(ctx, c.config.RunTimeout)
	defer cancel()

	form := EncodeRunForm(req)
	resp, err := c.do(reqCtx, ctx, op, http.MethodPost, "/run", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload runResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if ctx.Err() != nil {
			return nil, classify(ctx, op, err)
		}
		return nil, &Error{Kind: KindNetwork, Op: op, Message: "invalid run payload", Cause: err}
	}

	if payload.Status != StatusOK {
		msg := payload.Message
		if msg == "" {
			msg = payload.Status
		}
		if msg == "" {
			msg = "search failed"
		}
		return domain.Failure{Message: msg}, nil
	}

	links := payload.Links
	if links == nil {
		links = []string{}
	}
	return domain.Success{Links: links, ElapsedSeconds: payload.ElapsedTime}, nil
}

// Cancel asks the server to stop its running computation.
// The response body is ignored.
func (c *Client) Cancel(ctx context.Context) error {
	resp, err := c.do(ctx, ctx, "cancel", http.MethodPost, "/cancel", nil, http.NoBody, "")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// EncodeRunForm builds the form body the server's /run handler reads
func EncodeRunForm(req domain.RunRequest) url.Values {
	return url.Values{
		"start":      {req.Start},
		"end":        {req.End},
		"k":          {strconv.Itoa(req.K)},
		"time_limit": {strconv.Itoa(req.TimeLimit)},
		"max_depth":  {strconv.Itoa(req.MaxDepth)},
	}
}

// do sends one request. reqCtx carries the per-call timeout, callerCtx the operation's token.
// Responses with status >= 400 are turned into KindServer errors and their body closed.
func (c *Client) do(reqCtx, callerCtx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, method, u.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(callerCtx, op, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, &Error{
			Kind:    KindServer,
			Op:      op,
			Status:  resp.StatusCode,
			Message: serverMessage(resp),
		}
	}

	return resp, nil
}

// serverMessage extracts a human message from an error response
func serverMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return "unexpected status from server: " + resp.Status
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
