// Package http implements [ragchat.API] against the backend's REST API.
//
// The backend wraps payloads in inconsistent envelopes ({data: {content:
// [...]}}, {data: {...}}, or bare shapes). All responses pass through one
// normalization function before decoding, and list decoding coerces
// non-array shapes to empty slices instead of failing.
package http

import "net/http"

const (
	apiPrefix = "/api/v1"

	sessionsPath = apiPrefix + "/sessions"
	chatPath     = apiPrefix + "/chat/sessions"
	statusPath   = apiPrefix + "/chat/status"
)

// Client implements [ragchat.API] for the RAG chat backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a [Client] for the backend at baseURL (without the /api/v1
// suffix), authenticating every request with apiKey.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}
