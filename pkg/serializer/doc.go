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

// Package serializer writes HTTP responses and renders values for the
// command line.
//
// HTTP helpers buffer or set headers before writing the body, so a failed
// encoding never produces a partial 200 response:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//	serializer.RespondRaw(w, http.StatusOK, upstreamBody)
//	serializer.RespondText(w, http.StatusOK, "AgriRelay API is running")
//
// Writer renders a value as JSON, YAML (gopkg.in/yaml.v3) or a flattened
// two-column table:
//
//	w := serializer.NewWriter(serializer.FormatYAML, os.Stdout)
//	if err := w.Serialize(cfg); err != nil {
//	    return err
//	}
package serializer
