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
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
)

const (
	// ImageField is the multipart field carrying the leaf photo.
	ImageField = "image"

	msgNoImage = "No image uploaded"
)

// UploadedImage is a request-scoped, in-memory copy of the uploaded file.
type UploadedImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CaptureUpload buffers the single file in field. A request without that
// file, including a non-multipart request, is a validation error. Bodies
// larger than maxBytes are rejected as PAYLOAD_TOO_LARGE.
func CaptureUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*UploadedImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewWithContext(apperrors.ErrCodePayloadTooLarge,
				"Uploaded image is too large", map[string]any{"limitBytes": maxBytes})
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, msgNoImage, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, apperrors.Validation(msgNoImage, map[string]any{"field": field})
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, msgNoImage, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "Failed to read uploaded image", err)
	}
	if len(data) == 0 {
		return nil, apperrors.Validation("Uploaded image is empty", map[string]any{"field": field})
	}

	contentType := hdr.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &UploadedImage{
		Data:        data,
		ContentType: contentType,
		Filename:    hdr.Filename,
	}, nil
}

func (img *UploadedImage) String() string {
	if img == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s, %d bytes)", img.Filename, img.ContentType, len(img.Data))
}
