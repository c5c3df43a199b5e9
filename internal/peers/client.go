// Package peers implements the participant ports over HTTP.
//
// Every adapter goes through Client, which signs requests with a short-lived
// service token, guards each participant with a circuit breaker and turns
// upstream statuses into domain error codes. Callers never see HTTP statuses.
package peers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"onboarding/internal/platform/metrics"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/circuit"
	"onboarding/pkg/platform/httputil"
)

const (
	serviceSubject = "onboarding"
	maxBodyBytes   = 1 << 20
)

// TokenIssuer mints the bearer tokens attached to outbound calls.
type TokenIssuer interface {
	Issue(subject, scope string) (string, error)
}

// Response is a received upstream response.
type Response struct {
	Status int
	Body   []byte
}

// Get reads a field from the JSON body.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Client performs JSON calls against one participant.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	tokens  TokenIssuer
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTokenIssuer(t TokenIssuer) Option {
	return func(c *Client) {
		c.tokens = t
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTimeout bounds every call made through the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client for participant name rooted at baseURL.
func NewClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = circuit.New(name)
	}
	return c
}

func (c *Client) Name() string {
	return c.name
}

// Do sends a JSON request. The Response is returned whenever the participant
// answered, even when the error is non-nil, so adapters can refine the
// generic status mapping.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	return c.do(ctx, method, path, query, body, "application/json", nil)
}

// PostForm sends a form-encoded request with extra headers.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, header http.Header) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", header)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, contentType string, header http.Header) (*Response, error) {
	if !c.breaker.Allow() {
		c.logger.WarnContext(ctx, "participant circuit open, skipping call",
			"participant", c.name,
			"path", path,
		)
		return nil, dErrors.New(dErrors.CodeDependencyUnavailable, httputil.TryAgainLater)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, query, body, contentType, header)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build participant request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.failed(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, c.name+" did not respond in time")
		}
		c.logger.ErrorContext(ctx, "participant call failed",
			"participant", c.name,
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyUnavailable, httputil.TryAgainLater)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.failed(ctx)
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyUnavailable, httputil.TryAgainLater)
	}
	out := &Response{Status: resp.StatusCode, Body: raw}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.failed(ctx)
		c.logger.ErrorContext(ctx, "participant returned server error",
			"participant", c.name,
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
	} else {
		c.breaker.RecordSuccess()
	}
	return out, Classify(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, contentType string, header http.Header) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.tokens != nil && req.Header.Get("Authorization") == "" {
		token, err := c.tokens.Issue(serviceSubject, c.name)
		if err != nil {
			return nil, fmt.Errorf("issue service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) failed(ctx context.Context) {
	_, change := c.breaker.RecordFailure()
	if change.Opened {
		c.logger.WarnContext(ctx, "participant circuit opened", "participant", c.name)
		if c.metrics != nil {
			c.metrics.IncCircuitOpened(c.name)
		}
	}
}

// Classify maps a response status onto a domain error. 2xx and 3xx return nil.
func Classify(r *Response) error {
	switch {
	case r.Status < http.StatusBadRequest:
		return nil
	case r.Status == http.StatusUnauthorized, r.Status == http.StatusForbidden:
		return dErrors.New(dErrors.CodeUnauthorized, messageOr(r, "participant refused our credentials"))
	case r.Status == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, messageOr(r, "resource not found"))
	case r.Status == http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, messageOr(r, "resource already exists"))
	case r.Status == http.StatusRequestTimeout, r.Status == http.StatusGatewayTimeout:
		return dErrors.New(dErrors.CodeTimeout, "participant did not respond in time")
	case r.Status < http.StatusInternalServerError:
		return dErrors.New(dErrors.CodeDependencyRejected, messageOr(r, "request rejected"))
	default:
		return dErrors.New(dErrors.CodeDependencyUnavailable, httputil.TryAgainLater)
	}
}

func messageOr(r *Response, fallback string) string {
	if msg := r.Get("message").String(); msg != "" {
		return msg
	}
	return fallback
}
