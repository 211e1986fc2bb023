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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
)

// Number is a float accepted either as a JSON number or as a numeric string.
// Empty, non-numeric and non-finite values are rejected.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	if s == "" {
		return fmt.Errorf("empty number")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid number %q", s)
	}

	*n = Number(f)
	return nil
}

// Float returns the value of n, or 0 when n is nil.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// NumberOf returns a pointer to v, for building requests in code.
func NumberOf(v float64) *Number {
	n := Number(v)
	return &n
}

// CropRequest carries the soil and climate readings for a crop recommendation.
type CropRequest struct {
	Temp     *Number `json:"temp" validate:"required,gte=-50,lte=70"`
	Humidity *Number `json:"humidity" validate:"required,gte=0,lte=100"`
	PH       *Number `json:"ph" validate:"required,gte=0,lte=14"`
	Rainfall *Number `json:"rainfall" validate:"required,gte=0"`
	N        *Number `json:"N" validate:"required,gte=0,lte=1000"`
	P        *Number `json:"P" validate:"required,gte=0,lte=1000"`
	K        *Number `json:"K" validate:"required,gte=0,lte=1000"`
}

// args returns the positional arguments of the crop endpoint.
func (r *CropRequest) args() []any {
	return []any{
		r.Temp.Float(), r.Humidity.Float(), r.PH.Float(), r.Rainfall.Float(),
		r.N.Float(), r.P.Float(), r.K.Float(),
	}
}

// FertilizerRequest carries the readings and crop context for a fertilizer
// recommendation.
type FertilizerRequest struct {
	Temp     *Number `json:"temp" validate:"required,gte=-50,lte=70"`
	Humidity *Number `json:"humidity" validate:"required,gte=0,lte=100"`
	Moisture *Number `json:"moisture" validate:"required,gte=0,lte=100"`
	Soil     string  `json:"soil" validate:"required,notblank"`
	Crop     string  `json:"crop" validate:"required,notblank"`
	N        *Number `json:"N" validate:"required,gte=0,lte=1000"`
	P        *Number `json:"P" validate:"required,gte=0,lte=1000"`
	K        *Number `json:"K" validate:"required,gte=0,lte=1000"`
}

func (r *FertilizerRequest) args() []any {
	return []any{
		r.Temp.Float(), r.Humidity.Float(), r.Moisture.Float(),
		normalizeLabel(r.Soil), normalizeLabel(r.Crop),
		r.N.Float(), r.P.Float(), r.K.Float(),
	}
}

// normalizeLabel trims a category value and puts it in Unicode NFC form so
// that visually identical input matches the model's category list.
func normalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ChatRequest is a single user message for the chatbot.
type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// validate checks req and converts failures into a single INVALID_REQUEST
// error listing every offending field.
func (rl *Relay) validate(req any) error {
	err := rl.validator.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // returned unwrapped by Struct
	if !ok {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "Invalid request", err)
	}

	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		msgs = append(msgs, describeFieldError(fe))
	}

	return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "Invalid request",
		fmt.Errorf("%s", strings.Join(msgs, "; ")), map[string]any{"fields": fields})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
