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

// Package server provides the HTTP server shared by the relay API.
//
// # Architecture
//
// Every request passes one middleware chain wrapped around the mux:
//
//   - Prometheus metrics (agrirelay_http_*)
//   - API version negotiation (X-API-Version)
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery answering 500 JSON
//   - Debug request logging via log/slog
//   - CORS allow-list gate, preflight handling
//
// The CORS gate runs before routing, so a disallowed Origin is rejected with
// 403 and code CORS_REJECTED on every path and no handler runs. OPTIONS on
// any path is answered with 204.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("agrirelay"),
//	    server.WithVersion(version),
//	    server.WithAddress("", 5000),
//	    server.WithAllowedOrigins([]string{"http://localhost:5173"}),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/api/predict-crop": handler,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Errors
//
// Handlers return errors from pkg/errors and call WriteErrorFromErr once at
// the boundary. The body is:
//
//	{
//	  "error": "Crop prediction failed",
//	  "details": "call /predict failed: ...",
//	  "code": "UPSTREAM_ERROR",
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-01-01T00:00:00Z",
//	  "retryable": true
//	}
//
// # System Endpoints
//
//	GET /health   liveness
//	GET /ready    readiness, 503 while starting or draining
//	GET /metrics  Prometheus exposition
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM, marks the server not ready and waits up to
// ShutdownTimeout for in-flight requests.
package server
