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
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
	"github.com/agrirelay/agrirelay/pkg/serializer"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Details   string         `json:"details,omitempty"`
	Code      string         `json:"code"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code apperrors.ErrorCode, message string, retryable bool, context map[string]any) {

	writeError(w, r, statusCode, ErrorResponse{
		Error:     message,
		Code:      string(code),
		Context:   context,
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err to a status code once, at the HTTP boundary.
// The outermost StructuredError supplies the message and code, its cause
// becomes details. Errors without a StructuredError are reported as
// internal with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraContext map[string]any) {
	var se *apperrors.StructuredError
	if !errors.As(err, &se) {
		resp := ErrorResponse{
			Error:     fallbackMessage,
			Code:      string(apperrors.ErrCodeInternal),
			Context:   extraContext,
			Retryable: retryableFromCode(apperrors.ErrCodeInternal),
		}
		if err != nil {
			resp.Details = err.Error()
		}
		writeError(w, r, http.StatusInternalServerError, resp)
		return
	}

	resp := ErrorResponse{
		Error:     se.Message,
		Code:      string(se.Code),
		Context:   mergeContext(se.Context, extraContext),
		Retryable: retryableFromCode(se.Code),
	}
	if resp.Error == "" {
		resp.Error = fallbackMessage
	}
	if se.Cause != nil {
		resp.Details = se.Cause.Error()
	}

	writeError(w, r, HTTPStatusFromCode(se.Code), resp)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, resp ErrorResponse) {
	resp.RequestID = RequestIDFromContext(r.Context())
	if resp.RequestID == "" {
		resp.RequestID = uuid.New().String()
	}
	resp.Timestamp = time.Now().UTC()

	serializer.RespondJSON(w, statusCode, resp)
}

// HTTPStatusFromCode maps an error code to its HTTP status. Upstream
// failures and timeouts stay in the 500 class.
func HTTPStatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeCorsRejected:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case apperrors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.ErrCodeUpstream, apperrors.ErrCodeTimeout, apperrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code apperrors.ErrorCode) bool {
	switch code {
	case apperrors.ErrCodeUpstream, apperrors.ErrCodeTimeout, apperrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

func mergeContext(base, extra map[string]any) map[string]any {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
