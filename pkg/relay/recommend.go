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
	"context"
	"encoding/json"
	"errors"

	"github.com/agrirelay/agrirelay/pkg/gradio"
)

const (
	// RecommendationSpace hosts the crop and fertilizer recommendation models.
	RecommendationSpace = "Trisita/crop_and_fertilizer_recommendation_system"

	cropEndpoint       = "/predict"
	fertilizerEndpoint = "/predict_1"

	msgCropFail       = "Crop prediction failed"
	msgFertilizerFail = "Fertilizer prediction failed"
)

var errEmptyResult = errors.New("model returned no data")

// CropRecommendation holds the model's first output unchanged.
type CropRecommendation struct {
	RecommendedCrop json.RawMessage `json:"recommendedCrop"`
}

// FertilizerPrediction holds the model's first output unchanged.
type FertilizerPrediction struct {
	Prediction json.RawMessage `json:"prediction"`
}

// RecommendCrop asks the recommendation space which crop suits req.
func (rl *Relay) RecommendCrop(ctx context.Context, req *CropRequest) (*CropRecommendation, error) {
	if err := rl.validate(req); err != nil {
		return nil, err
	}

	out, err := rl.predictFirst(ctx, cropEndpoint, req.args()...)
	if err != nil {
		logFailure(ctx, "crop", gradio.UpstreamName, err)
		return nil, upstreamError(gradio.UpstreamName, msgCropFail, err)
	}
	return &CropRecommendation{RecommendedCrop: out}, nil
}

// RecommendFertilizer asks the recommendation space which fertilizer suits req.
func (rl *Relay) RecommendFertilizer(ctx context.Context, req *FertilizerRequest) (*FertilizerPrediction, error) {
	if err := rl.validate(req); err != nil {
		return nil, err
	}

	out, err := rl.predictFirst(ctx, fertilizerEndpoint, req.args()...)
	if err != nil {
		logFailure(ctx, "fertilizer", gradio.UpstreamName, err)
		return nil, upstreamError(gradio.UpstreamName, msgFertilizerFail, err)
	}
	return &FertilizerPrediction{Prediction: out}, nil
}

// predictFirst runs one prediction on the recommendation space and returns
// data[0].
func (rl *Relay) predictFirst(ctx context.Context, endpoint string, args ...any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, rl.upstreamTimeout)
	defer cancel()

	session, err := rl.connect(ctx, RecommendationSpace)
	if err != nil {
		return nil, err
	}

	res, err := session.Predict(ctx, endpoint, args...)
	if err != nil {
		return nil, err
	}

	first := res.First()
	if first == nil {
		return nil, errEmptyResult
	}
	return first, nil
}
