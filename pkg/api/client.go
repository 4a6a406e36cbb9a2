package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/trustgraph/pkg/errors"
	"github.com/matzehuels/trustgraph/pkg/observability"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

// DefaultBaseURL is used when NewClient is given an empty base address.
const DefaultBaseURL = "http://localhost:8000"

// Client issues requests to the TrustGraph backend.
// It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHeaders adds headers to every request. They override the defaults
// for the same key.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// NewClient creates a Client for the backend at baseURL.
// An empty baseURL selects [DefaultBaseURL].
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (*trustgraph.Health, error) {
	var h trustgraph.Health
	if err := c.get(ctx, "/", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Graph fetches the full graph. The body is returned as decoded, without
// checking that edges reference known nodes.
func (c *Client) Graph(ctx context.Context) (*trustgraph.GraphData, error) {
	var g trustgraph.GraphData
	if err := c.get(ctx, "/graph", &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Profile fetches the detail record of one profile.
// The id must be non-empty; it is otherwise forwarded unchanged.
func (c *Client) Profile(ctx context.Context, profileID string) (*trustgraph.ProfileDetail, error) {
	if err := errors.ValidateRequired("profile id", profileID); err != nil {
		return nil, err
	}
	var p trustgraph.ProfileDetail
	if err := c.get(ctx, "/profile/"+url.PathEscape(profileID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// VerifyContribution asks the backend whether username has contributed to
// repository. The result is opaque and returned unchanged.
func (c *Client) VerifyContribution(ctx context.Context, username, repository string) (*trustgraph.VerificationResult, error) {
	if err := errors.ValidateRequired("username", username); err != nil {
		return nil, err
	}
	if err := errors.ValidateRequired("repository", repository); err != nil {
		return nil, err
	}
	var r trustgraph.VerificationResult
	path := "/verify/" + url.PathEscape(username) + "/" + url.PathEscape(repository)
	if err := c.get(ctx, path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	reqID := uuid.NewString()
	logger := c.logger.With("request_id", reqID, "path", path)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fail(logger, errors.Wrap(errors.ErrCodeInternal, err, "build request: %v", err))
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	hooks.OnRequest(ctx, reqID, req.Method, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, reqID, req.Method, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Debug("API request cancelled", "err", ctxErr)
			return ctxErr
		}
		return fail(logger, errors.Wrap(errors.ErrCodeNetwork, err, "%v", err))
	}
	defer resp.Body.Close()

	hooks.OnResponse(ctx, reqID, req.Method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(logger, errors.HTTPStatus(resp.StatusCode, reasonPhrase(resp)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Debug("API request cancelled", "err", ctxErr)
			return ctxErr
		}
		return fail(logger, errors.Wrap(errors.ErrCodeDecode, err, "%v", err))
	}
	logger.Debug("API request succeeded", "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func fail(logger *log.Logger, err *errors.Error) error {
	logger.Error("API request failed", "err", err.Message)
	return err
}

// reasonPhrase returns the reason phrase sent by the server, falling back to
// the standard text for the status code.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
