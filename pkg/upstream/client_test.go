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
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := NewClient()
		assert.Equal(t, DefaultUserAgent, c.UserAgent)
		assert.Equal(t, DefaultTimeout, c.TotalTimeout)
		assert.Equal(t, DefaultMaxResponseBytes, c.MaxResponseBytes)
		require.NotNil(t, c.HTTP)
		assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)
	})

	t.Run("options", func(t *testing.T) {
		c := NewClient(
			WithUserAgent("test-agent"),
			WithTotalTimeout(5*time.Second),
			WithConnectTimeout(time.Second),
			WithTLSHandshakeTimeout(2*time.Second),
			WithResponseHeaderTimeout(3*time.Second),
			WithMaxResponseBytes(16),
		)
		assert.Equal(t, "test-agent", c.UserAgent)
		assert.Equal(t, 5*time.Second, c.HTTP.Timeout)
		assert.Equal(t, time.Second, c.ConnectTimeout)
		assert.Equal(t, 2*time.Second, c.TLSHandshakeTimeout)
		assert.Equal(t, 3*time.Second, c.ResponseHeaderTimeout)
		tr, ok := c.HTTP.Transport.(*http.Transport)
		require.True(t, ok)
		assert.Equal(t, 3*time.Second, tr.ResponseHeaderTimeout)
		assert.Equal(t, int64(16), c.MaxResponseBytes)
	})

	t.Run("custom http client", func(t *testing.T) {
		hc := &http.Client{Timeout: time.Second}
		c := NewClient(WithHTTPClient(hc))
		assert.Same(t, hc, c.HTTP)
	})

	t.Run("empty values fall back", func(t *testing.T) {
		c := NewClient(WithUserAgent(""), WithMaxResponseBytes(0))
		assert.Equal(t, DefaultUserAgent, c.UserAgent)
		assert.Equal(t, DefaultMaxResponseBytes, c.MaxResponseBytes)
	})
}

func TestClientDo(t *testing.T) {
	t.Run("success returns body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "agrirelay-test", r.Header.Get("User-Agent"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		c := NewClient(WithUserAgent("agrirelay-test"))
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		SetBearer(req, "secret")

		body, err := c.Do("test", req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("non-2xx returns status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("model sleeping"))
		}))
		defer srv.Close()

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, err = NewClient().Do("test", req)
		require.Error(t, err)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.StatusCode)
		assert.Equal(t, "model sleeping", string(se.Body))
		assert.Contains(t, err.Error(), "model sleeping")
	})

	t.Run("body is capped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer srv.Close()

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		body, err := NewClient(WithMaxResponseBytes(10)).Do("test", req)
		require.Error(t, err)
		assert.Nil(t, body)
		assert.ErrorIs(t, err, ErrResponseTooLarge)
		assert.Contains(t, err.Error(), "exceeds 10 bytes")
	})

	t.Run("body at cap", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 10)))
		}))
		defer srv.Close()

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		body, err := NewClient(WithMaxResponseBytes(10)).Do("test", req)
		require.NoError(t, err)
		assert.Len(t, body, 10)
	})

	t.Run("slow headers within header timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		do := func(headerTimeout time.Duration) error {
			req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL, nil)
			require.NoError(t, err)
			_, err = NewClient(
				WithTotalTimeout(5*time.Second),
				WithResponseHeaderTimeout(headerTimeout),
			).Do("test", req)
			return err
		}

		assert.Error(t, do(50*time.Millisecond))
		assert.NoError(t, do(2*time.Second))
	})

	t.Run("context deadline", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, err = NewClient().Do("test", req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestSetBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	SetBearer(req, "")
	assert.Empty(t, req.Header.Get("Authorization"))

	SetBearer(req, "tok")
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	e := &StatusError{StatusCode: 500, Status: "500 Internal Server Error", Body: []byte(strings.Repeat("a", 1000))}
	assert.Less(t, len(e.Error()), 600)

	e = &StatusError{StatusCode: 404, Status: "404 Not Found"}
	assert.Equal(t, "upstream returned 404 Not Found", e.Error())
}
