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

package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agrirelay/agrirelay/pkg/defaults"
	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
)

const (
	wildcardOrigin = "*"

	corsAllowMethods  = "GET, POST, OPTIONS"
	corsDefaultHeader = "Content-Type, Authorization"
)

// CORSPolicy decides which browser origins may call the API.
type CORSPolicy struct {
	origins  map[string]struct{}
	wildcard bool
}

// NewCORSPolicy builds a policy from an allow-list. Entries are compared
// exactly after trimming whitespace and trailing slashes.
func NewCORSPolicy(origins []string) *CORSPolicy {
	p := &CORSPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == wildcardOrigin {
			p.wildcard = true
			continue
		}
		p.origins[o] = struct{}{}
	}
	return p
}

// Allowed reports whether a request with the given Origin header may proceed.
// Requests without an Origin are not cross-origin and are always allowed.
func (p *CORSPolicy) Allowed(origin string) bool {
	if origin == "" || p.wildcard {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// corsMiddleware rejects disallowed origins before any handler runs and
// answers preflight requests on every path.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	maxAge := strconv.Itoa(int(defaults.CORSMaxAge.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if !s.cors.Allowed(origin) {
			corsRejections.Inc()
			WriteError(w, r, http.StatusForbidden, apperrors.ErrCodeCorsRejected,
				"Origin not allowed", false, map[string]any{"origin": origin})
			return
		}

		if origin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			h := w.Header()
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
				h.Set("Access-Control-Allow-Headers", req)
			} else {
				h.Set("Access-Control-Allow-Headers", corsDefaultHeader)
			}
			h.Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
