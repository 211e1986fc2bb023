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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code apperrors.ErrorCode
		want int
	}{
		{"invalid request", apperrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"cors rejected", apperrors.ErrCodeCorsRejected, http.StatusForbidden},
		{"not found", apperrors.ErrCodeNotFound, http.StatusNotFound},
		{"method not allowed", apperrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"payload too large", apperrors.ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"upstream", apperrors.ErrCodeUpstream, http.StatusInternalServerError},
		{"timeout", apperrors.ErrCodeTimeout, http.StatusInternalServerError},
		{"internal", apperrors.ErrCodeInternal, http.StatusInternalServerError},
		{"unknown defaults to internal", apperrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	tests := []struct {
		name string
		code apperrors.ErrorCode
		want bool
	}{
		{"invalid request", apperrors.ErrCodeInvalidRequest, false},
		{"cors rejected", apperrors.ErrCodeCorsRejected, false},
		{"not found", apperrors.ErrCodeNotFound, false},
		{"upstream", apperrors.ErrCodeUpstream, true},
		{"timeout", apperrors.ErrCodeTimeout, true},
		{"internal", apperrors.ErrCodeInternal, true},
		{"unknown defaults false", apperrors.ErrorCode("SOMETHING_ELSE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableFromCode(tt.code); got != tt.want {
				t.Fatalf("retryableFromCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMergeContext(t *testing.T) {
	if got := mergeContext(nil, nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}

	got := mergeContext(map[string]any{"a": 1, "b": 2}, map[string]any{"b": 3})
	if got["a"] != 1 || got["b"] != 3 {
		t.Fatalf("unexpected merge result %v", got)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-1"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "No image uploaded", false, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	resp := decodeError(t, w)
	if resp.Error != "No image uploaded" {
		t.Errorf("expected error message, got %q", resp.Error)
	}
	if resp.RequestID != "req-1" {
		t.Errorf("expected request ID from context, got %q", resp.RequestID)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured upstream error", func(t *testing.T) {
		cause := fmt.Errorf("call /predict failed: %w", errors.New("connection refused"))
		err := apperrors.Upstream("gradio", "Crop prediction failed", cause)

		w := httptest.NewRecorder()
		WriteErrorFromErr(w, httptest.NewRequest(http.MethodPost, "/", nil), err, "fallback", map[string]any{"route": "crop"})

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		resp := decodeError(t, w)
		if resp.Error != "Crop prediction failed" {
			t.Errorf("expected adapter message, got %q", resp.Error)
		}
		if resp.Details != cause.Error() {
			t.Errorf("expected details %q, got %q", cause.Error(), resp.Details)
		}
		if resp.Code != string(apperrors.ErrCodeUpstream) || !resp.Retryable {
			t.Errorf("unexpected code/retryable %s/%v", resp.Code, resp.Retryable)
		}
		if resp.Context["upstream"] != "gradio" || resp.Context["route"] != "crop" {
			t.Errorf("unexpected context %v", resp.Context)
		}
		if resp.RequestID == "" {
			t.Error("expected generated request ID")
		}
	})

	t.Run("wrapped validation error", func(t *testing.T) {
		err := fmt.Errorf("decode: %w", apperrors.Validation("Invalid request body", nil))

		w := httptest.NewRecorder()
		WriteErrorFromErr(w, httptest.NewRequest(http.MethodPost, "/", nil), err, "fallback", nil)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		if resp := decodeError(t, w); resp.Error != "Invalid request body" || resp.Details != "" {
			t.Errorf("unexpected body %+v", resp)
		}
	})

	t.Run("plain error uses fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteErrorFromErr(w, httptest.NewRequest(http.MethodPost, "/", nil), errors.New("boom"), "Something failed", nil)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		resp := decodeError(t, w)
		if resp.Error != "Something failed" || resp.Details != "boom" || resp.Code != "INTERNAL" {
			t.Errorf("unexpected body %+v", resp)
		}
	})
}
