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

// Package gradiotest provides an in-process hosted model space for tests.
package gradiotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// PredictFunc computes the output data of an endpoint from its arguments.
// A non-nil error is reported to the caller as an error event.
type PredictFunc func(args []json.RawMessage) ([]any, error)

// Server is a fake space speaking the upload and call protocol.
type Server struct {
	*httptest.Server

	// Prefix is reported as api_prefix in the space config.
	Prefix string

	mu        sync.Mutex
	endpoints map[string]PredictFunc
	pending   map[string]pending
	uploads   map[string][]byte
	nextID    atomic.Int64

	// Auth records the Authorization header of the last request.
	Auth atomic.Value
}

type pending struct {
	data []any
	err  error
}

// NewServer starts a space with the given api prefix, for example
// "/gradio_api". Callers must Close it.
func NewServer(prefix string) *Server {
	s := &Server{
		Prefix:    prefix,
		endpoints: map[string]PredictFunc{},
		pending:   map[string]pending{},
		uploads:   map[string][]byte{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Handle registers fn for the endpoint name without leading slash.
func (s *Server) Handle(endpoint string, fn PredictFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints[strings.TrimPrefix(endpoint, "/")] = fn
}

// Uploaded returns the bytes stored under path by an upload.
func (s *Server) Uploaded(path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads[path]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.Auth.Store(r.Header.Get("Authorization"))

	if r.URL.Path == "/config" && r.Method == http.MethodGet {
		writeJSON(w, map[string]any{"version": "5.0.0", "api_prefix": s.Prefix})
		return
	}

	path, ok := strings.CutPrefix(r.URL.Path, s.Prefix)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case path == "/upload" && r.Method == http.MethodPost:
		s.upload(w, r)
	case strings.HasPrefix(path, "/call/") && r.Method == http.MethodPost:
		s.call(w, r, strings.TrimPrefix(path, "/call/"))
	case strings.HasPrefix(path, "/call/") && r.Method == http.MethodGet:
		s.result(w, strings.TrimPrefix(path, "/call/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("files")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	path := fmt.Sprintf("/tmp/gradio/%d/%s", s.nextID.Add(1), hdr.Filename)
	s.mu.Lock()
	s.uploads[path] = data
	s.mu.Unlock()

	writeJSON(w, []string{path})
}

func (s *Server) call(w http.ResponseWriter, r *http.Request, name string) {
	s.mu.Lock()
	fn, ok := s.endpoints[name]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	data, err := fn(req.Data)
	id := fmt.Sprintf("evt-%d", s.nextID.Add(1))

	s.mu.Lock()
	s.pending[name+"/"+id] = pending{data: data, err: err}
	s.mu.Unlock()

	writeJSON(w, map[string]string{"event_id": id})
}

func (s *Server) result(w http.ResponseWriter, key string) {
	s.mu.Lock()
	p, ok := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	_, _ = io.WriteString(w, "event: heartbeat\ndata: null\n\n")

	if p.err != nil {
		msg, _ := json.Marshal(p.err.Error())
		_, _ = fmt.Fprintf(w, "event: error\ndata: %s\n\n", msg)
		return
	}

	out, err := json.Marshal(p.data)
	if err != nil {
		_, _ = io.WriteString(w, "event: error\ndata: null\n\n")
		return
	}
	_, _ = fmt.Fprintf(w, "event: complete\ndata: %s\n\n", out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
