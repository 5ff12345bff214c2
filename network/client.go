// Package network provides the HTTP client shared by every probe and download of a run.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jutdl/jutdl/constant"
)

// Options configures a Client. The zero value is usable.
type Options struct {
	// Timeout bounds a whole request, body included. Zero means no limit.
	Timeout time.Duration
	// Fingerprint routes requests through a transport that mimics a browser TLS handshake.
	Fingerprint bool
	// UserAgent overrides constant.UserAgent.
	UserAgent string
}

// Client issues GET requests carrying a fixed browser identification header.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
}

// Response is a fully read response.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// NewClient builds a Client with a tuned transport.
func NewClient(options Options) *Client {
	var transport http.RoundTripper = newTransport()
	if options.Fingerprint {
		transport = newFingerprintTransport()
	}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = constant.UserAgent
	}

	return &Client{
		http: &http.Client{
			Timeout:   options.Timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Get performs a request and reads the whole body.
// A non-2xx status is not an error; callers inspect Response.Status.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := c.Stream(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Stream performs a request and hands back the open response. The caller must close its body.
func (c *Client) Stream(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return resp, nil
}
