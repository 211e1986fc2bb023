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

// Package defaults provides centralized configuration constants for the relay.
//
// This package defines timeout values and size limits used across the
// codebase. Centralizing these values ensures consistency and makes tuning
// easier.
//
// # Timeout Categories
//
//   - Handler timeouts: For a single adapter invocation
//   - Server timeouts: For HTTP server configuration
//   - HTTP client timeouts: For outbound calls to hosted models and the chat API
//
// # Usage
//
//	import "github.com/agrirelay/agrirelay/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.UpstreamCallTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Upstream calls: 60s, hosted models cold-start slowly
//   - Server write: longer than the upstream call so errors can be written
//   - Server shutdown: 30s for graceful shutdown
package defaults
