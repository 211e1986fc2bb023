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

package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
	"github.com/agrirelay/agrirelay/pkg/serializer"
	"github.com/agrirelay/agrirelay/pkg/server"
)

// Route paths.
const (
	PathStatus            = "/api"
	PathPredictDisease    = "/api/predict-disease"
	PathPredictFertilizer = "/api/predict-fertilizer"
	PathPredictCrop       = "/api/predict-crop"
	PathChat              = "/api/chatbase"
	PathChatProbe         = "/api/chatbase-test"
)

const (
	statusText    = "AgriRelay API is running"
	chatProbeText = "Chatbase route is reachable ✅"
)

// Routes returns the static path to handler table served by the relay.
func (rl *Relay) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		PathStatus:            rl.handleStatus,
		PathPredictDisease:    rl.handlePredictDisease,
		PathPredictFertilizer: rl.handlePredictFertilizer,
		PathPredictCrop:       rl.handlePredictCrop,
		PathChat:              rl.handleChat,
		PathChatProbe:         rl.handleChatProbe,
	}
}

func (rl *Relay) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !server.AllowMethods(w, r, http.MethodGet) {
		return
	}
	serializer.RespondText(w, http.StatusOK, statusText)
}

func (rl *Relay) handleChatProbe(w http.ResponseWriter, r *http.Request) {
	if !server.AllowMethods(w, r, http.MethodGet) {
		return
	}
	serializer.RespondText(w, http.StatusOK, chatProbeText)
}

func (rl *Relay) handlePredictDisease(w http.ResponseWriter, r *http.Request) {
	if !server.AllowMethods(w, r, http.MethodPost) {
		return
	}

	img, err := CaptureUpload(w, r, ImageField, rl.maxUploadBytes)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, msgNoImage, nil)
		return
	}

	res, err := rl.PredictDisease(r.Context(), img)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, msgDiseaseFail, nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, res)
}

func (rl *Relay) handlePredictCrop(w http.ResponseWriter, r *http.Request) {
	if !server.AllowMethods(w, r, http.MethodPost) {
		return
	}

	var req CropRequest
	if err := rl.decodeJSON(w, r, &req); err != nil {
		server.WriteErrorFromErr(w, r, err, msgCropFail, nil)
		return
	}

	res, err := rl.RecommendCrop(r.Context(), &req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, msgCropFail, nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, res)
}

func (rl *Relay) handlePredictFertilizer(w http.ResponseWriter, r *http.Request) {
	if !server.AllowMethods(w, r, http.MethodPost) {
		return
	}

	var req FertilizerRequest
	if err := rl.decodeJSON(w, r, &req); err != nil {
		server.WriteErrorFromErr(w, r, err, msgFertilizerFail, nil)
		return
	}

	res, err := rl.RecommendFertilizer(r.Context(), &req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, msgFertilizerFail, nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, res)
}

func (rl *Relay) handleChat(w http.ResponseWriter, r *http.Request) {
	if !server.AllowMethods(w, r, http.MethodPost) {
		return
	}

	var req ChatRequest
	if err := rl.decodeJSON(w, r, &req); err != nil {
		server.WriteErrorFromErr(w, r, err, msgChatFail, nil)
		return
	}

	reply, err := rl.Chat(r.Context(), &req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, msgChatFail, nil)
		return
	}

	serializer.RespondRaw(w, http.StatusOK, reply)
}

// decodeJSON reads a single JSON object from the capped request body.
func (rl *Relay) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, rl.maxJSONBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperrors.NewWithContext(apperrors.ErrCodePayloadTooLarge,
				"Request body is too large", map[string]any{"limitBytes": rl.maxJSONBytes})
		case errors.Is(err, io.EOF):
			return apperrors.Validation("Request body is required", nil)
		default:
			return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "Invalid request body", err)
		}
	}
	return nil
}
