// Package fact resolves "fact.fetch" effects: a short trivia sentence about
// a number, fetched from a numbersapi-style HTTP service or made up offline.
package fact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultBaseURL serves GET /{number}/trivia as text/plain.
	DefaultBaseURL  = "http://numbersapi.com"
	DefaultTimeout  = 5 * time.Second
	DefaultAttempts = 3
	DefaultBackoff  = 200 * time.Millisecond

	userAgent = "vine/0.1"
	maxBody   = 4096
)

// ErrStatus reports a non-2xx response.
var ErrStatus = errors.New("unexpected status")

var (
	_ ports.EffectHandler = (*Client)(nil)
	_ ports.EffectHandler = Offline{}
)

// Client fetches facts over HTTP. Transport errors and 5xx responses are
// retried up to Attempts times with linear backoff; 4xx responses are not.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	attempts int
	backoff  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// WithRetry sets the attempt count and the backoff step.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(cl *Client) {
		if attempts > 0 {
			cl.attempts = attempts
		}
		cl.backoff = backoff
	}
}

// NewClient builds a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse fact base_url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fact base_url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: DefaultTimeout},
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Handle implements ports.EffectHandler.
func (c *Client) Handle(ctx context.Context, req domain.EffectRequest) (any, error) {
	n, err := Number(req)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, n)
}

// Fetch returns a fact about n.
func (c *Client) Fetch(ctx context.Context, n int) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			}
		}

		text, retry, err := c.fetchOnce(ctx, n)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (c *Client) fetchOnce(ctx context.Context, n int) (string, bool, error) {
	rel := &url.URL{Path: strings.TrimSuffix(c.baseURL.Path, "/") + "/" + strconv.Itoa(n) + "/trivia"}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return "", resp.StatusCode >= 500, fmt.Errorf("%w: fact api returned %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}
	return strings.TrimSpace(string(body)), false, nil
}

// Offline answers without a network, for demos and tests.
type Offline struct{}

// Handle implements ports.EffectHandler.
func (Offline) Handle(ctx context.Context, req domain.EffectRequest) (any, error) {
	n, err := Number(req)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%d is a good number Brent", n), nil
}

// Number reads the "number" argument of a fact request. It accepts any
// numeric or numeric-string form, since args may have crossed JSON.
func Number(req domain.EffectRequest) (int, error) {
	var args struct {
		Number *int `mapstructure:"number"`
	}
	if err := mapstructure.WeakDecode(req.Args, &args); err != nil {
		return 0, fmt.Errorf("fact args: %w", err)
	}
	if args.Number == nil {
		return 0, errors.New("fact args: missing number")
	}
	return *args.Number, nil
}
