// Package client is the reference client of the ide-browser endpoint. Child
// processes use it to ask the host to open a URL in the browser tool window.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
)

// DefaultTarget is opened when no URL is given
const DefaultTarget = "https://google.com"

// Options configures retries. The host answers 503 until a workspace is
// open, so those responses are retried with backoff.
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() Options {
	return Options{
		Timeout:      10 * time.Second,
		RetryMax:     3,
		RetryWaitMin: 250 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
	}
}

// Response is the decoded answer of the endpoint
type Response struct {
	Status    int    `json:"-"`
	Success   bool   `json:"success"`
	URL       string `json:"url,omitempty"`
	Scheduled bool   `json:"scheduled,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Client talks to one endpoint
type Client struct {
	base string
	http *resty.Client
}

// New creates a client for the given base URL
func New(base string, opts Options) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.CheckRetry = retryUnavailable
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil // Disable logging

	return &Client{
		base: strings.TrimRight(base, "/"),
		http: resty.NewWithClient(retryClient.StandardClient()).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "ide-browser-client/1.0"),
	}
}

// FromEnv creates a client for the endpoint published in IDE_BROWSER_ENDPOINT
func FromEnv(opts Options) (*Client, error) {
	base, err := endpoint.FromEnv()
	if err != nil {
		return nil, err
	}
	return New(base, opts), nil
}

// Base returns the endpoint base URL
func (c *Client) Base() string {
	return c.base
}

// Open asks the host to open target. A blank target opens DefaultTarget.
// Non-2xx answers are returned as a Response, not an error.
func (c *Client) Open(ctx context.Context, target string) (*Response, error) {
	if strings.TrimSpace(target) == "" {
		target = DefaultTarget
	}

	var body Response
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetError(&body).
		Get(endpoint.OpenURL(c.base, target))
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", c.base, err)
	}

	body.Status = resp.StatusCode()
	return &body, nil
}

// retryUnavailable retries connection failures and 503, nothing else
func retryUnavailable(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return resp.StatusCode == http.StatusServiceUnavailable, nil
}
