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

package defaults

import "time"

// Handler timeouts for HTTP request processing.
const (
	// UpstreamCallTimeout bounds a single adapter invocation, covering the
	// hosted model session, file upload and prediction.
	UpstreamCallTimeout = 60 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading the request,
	// including multipart image uploads.
	ServerReadTimeout = 30 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Must exceed UpstreamCallTimeout so adapter failures can still be reported.
	ServerWriteTimeout = 90 * time.Second

	// ServerWriteTimeoutMargin is the headroom kept between a configured
	// upstream timeout and the write deadline of the response carrying its
	// result or error.
	ServerWriteTimeoutMargin = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// CORSMaxAge is how long browsers may cache a preflight response.
	CORSMaxAge = 10 * time.Minute
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for a single outbound request.
	HTTPClientTimeout = 60 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 10 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 10 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	// Hosted models may queue requests before answering.
	HTTPResponseHeaderTimeout = 45 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Request size limits.
const (
	// MaxUploadBytes caps the multipart body of the disease prediction route.
	MaxUploadBytes int64 = 10 << 20

	// MaxJSONBodyBytes caps JSON request bodies.
	MaxJSONBodyBytes int64 = 1 << 20

	// MaxUpstreamResponseBytes caps how much of an upstream response is buffered.
	MaxUpstreamResponseBytes int64 = 8 << 20
)
