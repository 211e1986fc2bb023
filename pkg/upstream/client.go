// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package upstream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/agrirelay/agrirelay/pkg/defaults"
)

const (
	DefaultUserAgent = "AgriRelay/1.0"
)

var (
	DefaultTimeout               = defaults.HTTPClientTimeout
	DefaultKeepAlive             = defaults.HTTPKeepAlive
	DefaultConnectTimeout        = defaults.HTTPConnectTimeout
	DefaultTLSHandshakeTimeout   = defaults.HTTPTLSHandshakeTimeout
	DefaultResponseHeaderTimeout = defaults.HTTPResponseHeaderTimeout
	DefaultIdleConnTimeout       = defaults.HTTPIdleConnTimeout
	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultMaxResponseBytes      = defaults.MaxUpstreamResponseBytes
)

// ErrResponseTooLarge is returned by Do when a 2xx body is larger than
// MaxResponseBytes.
var ErrResponseTooLarge = errors.New("upstream response too large")

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("upstream returned %s", e.Status)
	}
	body := e.Body
	if len(body) > 512 {
		body = body[:512]
	}
	return fmt.Sprintf("upstream returned %s: %s", e.Status, body)
}

// Option defines a configuration option for Client.
type Option func(*Client)

// Client issues outbound calls to hosted models and third-party APIs over a
// single pooled transport. It is safe for concurrent use.
type Client struct {
	UserAgent             string
	TotalTimeout          time.Duration
	ConnectTimeout        time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	MaxResponseBytes      int64
	HTTP                  *http.Client
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.UserAgent = userAgent
	}
}

func WithTotalTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.TotalTimeout = timeout
	}
}

func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.ConnectTimeout = timeout
	}
}

func WithTLSHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.TLSHandshakeTimeout = timeout
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.ResponseHeaderTimeout = timeout
	}
}

func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		c.MaxResponseBytes = n
	}
}

// WithHTTPClient replaces the underlying client. Transport options are
// ignored for a caller-supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTP = client
	}
}

// NewClient creates a new Client with the specified options.
func NewClient(options ...Option) *Client {
	c := &Client{
		UserAgent:             DefaultUserAgent,
		TotalTimeout:          DefaultTimeout,
		ConnectTimeout:        DefaultConnectTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		MaxResponseBytes:      DefaultMaxResponseBytes,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.HTTP == nil {
		c.HTTP = &http.Client{
			Timeout:   c.TotalTimeout,
			Transport: c.newTransport(),
		}
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = DefaultMaxResponseBytes
	}
	return c
}

func (c *Client) newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,

		DialContext: (&net.Dialer{
			Timeout:   c.ConnectTimeout,
			KeepAlive: DefaultKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   c.TLSHandshakeTimeout,
		ResponseHeaderTimeout: c.ResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,

		IdleConnTimeout:   DefaultIdleConnTimeout,
		ForceAttemptHTTP2: true,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Do sends req on behalf of the named upstream and returns the buffered body
// of a 2xx response. Non-2xx responses yield a *StatusError carrying the body.
// Every call is recorded in the upstream metrics.
func (c *Client) Do(name string, req *http.Request) ([]byte, error) {
	resp, err := c.Stream(name, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", name, err)
	}
	if int64(len(body)) > c.MaxResponseBytes {
		return nil, fmt.Errorf("%s response exceeds %d bytes: %w", name, c.MaxResponseBytes, ErrResponseTooLarge)
	}
	return body, nil
}

// Stream sends req and returns the open response for callers that consume
// the body incrementally. The caller must close the body. Non-2xx responses
// are drained, closed and reported as *StatusError.
func (c *Client) Stream(name string, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		observe(name, outcomeOf(req.Context(), err), start)
		return nil, fmt.Errorf("%s request failed: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		observe(name, outcomeStatus, start)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}
	}

	observe(name, outcomeOK, start)
	return resp, nil
}

// SetBearer sets the Authorization header when token is non-empty.
func SetBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func outcomeOf(ctx context.Context, err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() == context.DeadlineExceeded:
		return outcomeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return outcomeTimeout
	default:
		return outcomeError
	}
}
