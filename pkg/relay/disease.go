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
	"fmt"

	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
	"github.com/agrirelay/agrirelay/pkg/gradio"
)

const (
	// DiseaseSpace hosts the plant disease image classifier.
	DiseaseSpace = "akhaliq/Plant-Disease-Classifier"

	diseaseEndpoint = "/predict"
	noPrediction    = "No prediction"
	msgDiseaseFail  = "Prediction failed"
)

// DiseasePrediction is the classifier's top label.
type DiseasePrediction struct {
	Prediction string `json:"prediction"`
}

type labelOutput struct {
	Label string `json:"label"`
}

// PredictDisease uploads img to the classifier space and returns its top
// label, or "No prediction" when the model returns none.
func (rl *Relay) PredictDisease(ctx context.Context, img *UploadedImage) (*DiseasePrediction, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, apperrors.Validation(msgNoImage, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, rl.upstreamTimeout)
	defer cancel()

	res, err := rl.classify(ctx, img)
	if err != nil {
		logFailure(ctx, "disease", gradio.UpstreamName, err)
		return nil, upstreamError(gradio.UpstreamName, msgDiseaseFail, err)
	}

	return &DiseasePrediction{Prediction: topLabel(res)}, nil
}

func (rl *Relay) classify(ctx context.Context, img *UploadedImage) (*gradio.Result, error) {
	session, err := rl.connect(ctx, DiseaseSpace)
	if err != nil {
		return nil, err
	}

	file, err := session.Upload(ctx, img.Filename, img.ContentType, img.Data)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}

	return session.Predict(ctx, diseaseEndpoint, file)
}

// topLabel reads data[0].label. A missing, malformed or empty label is not an
// error.
func topLabel(res *gradio.Result) string {
	first := res.First()
	if first == nil {
		return noPrediction
	}
	var out labelOutput
	if err := json.Unmarshal(first, &out); err != nil || out.Label == "" {
		return noPrediction
	}
	return out.Label
}
