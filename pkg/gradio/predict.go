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

package gradio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agrirelay/agrirelay/pkg/upstream"
)

const (
	eventComplete   = "complete"
	eventError      = "error"
	eventGenerating = "generating"
	eventHeartbeat  = "heartbeat"

	maxEventBytes = 4 << 20
)

// Result is the output of a prediction: one entry per output component.
type Result struct {
	Data []json.RawMessage `json:"data"`
}

// First returns the first output value, or nil when there is none.
func (r *Result) First() json.RawMessage {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	return r.Data[0]
}

// AppError is reported by the space when the model itself fails.
type AppError struct {
	Endpoint string
	Message  string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("prediction %s failed", e.Endpoint)
	}
	return fmt.Sprintf("prediction %s failed: %s", e.Endpoint, e.Message)
}

type callRequest struct {
	Data []any `json:"data"`
}

type callResponse struct {
	EventID string `json:"event_id"`
}

// Predict invokes the named endpoint (for example "/predict") with positional
// arguments and waits for the complete event.
func (c *Client) Predict(ctx context.Context, endpoint string, data ...any) (*Result, error) {
	name := strings.TrimPrefix(endpoint, "/")
	if name == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if data == nil {
		data = []any{}
	}

	payload, err := json.Marshal(callRequest{Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/call/"+name), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	upstream.SetBearer(req, c.token)

	body, err := c.http.Do(UpstreamName, req)
	if err != nil {
		return nil, fmt.Errorf("call %s failed: %w", endpoint, err)
	}

	var call callResponse
	if err := json.Unmarshal(body, &call); err != nil {
		return nil, fmt.Errorf("invalid call response: %w", err)
	}
	if call.EventID == "" {
		return nil, fmt.Errorf("call %s returned no event id", endpoint)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/call/"+name+"/"+call.EventID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create result request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	upstream.SetBearer(req, c.token)

	resp, err := c.http.Stream(UpstreamName, req)
	if err != nil {
		return nil, fmt.Errorf("result %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	return readResult(resp.Body, endpoint)
}

// readResult consumes a server-sent event stream until the first complete or
// error event.
func readResult(r io.Reader, endpoint string) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventBytes)

	var (
		event string
		data  strings.Builder
	)

	dispatch := func() (*Result, bool, error) {
		defer func() {
			event = ""
			data.Reset()
		}()

		switch event {
		case eventComplete:
			var out []json.RawMessage
			if err := json.Unmarshal([]byte(data.String()), &out); err != nil {
				return nil, true, fmt.Errorf("invalid result for %s: %w", endpoint, err)
			}
			return &Result{Data: out}, true, nil
		case eventError:
			return nil, true, &AppError{Endpoint: endpoint, Message: errorMessage(data.String())}
		case eventGenerating, eventHeartbeat:
			return nil, false, nil
		default:
			return nil, false, nil
		}
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if res, done, err := dispatch(); done {
				return res, err
			}
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read result stream: %w", err)
	}

	// stream closed without a trailing blank line
	if event != "" {
		if res, done, err := dispatch(); done {
			return res, err
		}
	}
	return nil, fmt.Errorf("result stream for %s ended without completion", endpoint)
}

func errorMessage(data string) string {
	data = strings.TrimSpace(data)
	if data == "" || data == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(data), &s); err == nil {
		return s
	}
	return data
}
