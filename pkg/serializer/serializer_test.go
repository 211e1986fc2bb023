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

package serializer

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"prediction": "healthy"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"prediction":"healthy"}`, w.Body.String())
}

func TestRespondJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, map[string]float64{"bad": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "bad")
}

func TestRespondRaw(t *testing.T) {
	body := json.RawMessage(`{"text":"hello",  "sources":[]}`)
	w := httptest.NewRecorder()
	RespondRaw(w, http.StatusOK, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, string(body), w.Body.String())
}

func TestRespondText(t *testing.T) {
	w := httptest.NewRecorder()
	RespondText(w, http.StatusOK, "Chatbase route is reachable ✅")

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Chatbase route is reachable ✅", w.Body.String())
}

type sample struct {
	Port    int           `yaml:"port"`
	Origins []string      `yaml:"allowed_origins"`
	Timeout time.Duration `yaml:"timeout"`
	Name    string
	hidden  string
}

func TestWriter(t *testing.T) {
	v := sample{Port: 5000, Origins: []string{"http://a"}, Timeout: time.Minute, Name: "x", hidden: "h"}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(v))
		assert.Contains(t, buf.String(), `"Port": 5000`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(v))
		assert.Contains(t, buf.String(), "port: 5000")
		assert.Contains(t, buf.String(), "- http://a")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(v))
		out := buf.String()
		assert.Contains(t, out, "FIELD")
		assert.Contains(t, out, "allowed_origins.[0]")
		assert.Contains(t, out, "timeout")
		assert.Contains(t, out, "1m0s")
		assert.Contains(t, out, "Name")
		assert.NotContains(t, out, "hidden")
	})

	t.Run("table empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(struct{}{}))
		assert.Equal(t, "<empty>\n", buf.String())
	})

	t.Run("unknown format falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(Format("xml"), &buf).Serialize(map[string]int{"a": 1}))
		assert.True(t, strings.HasPrefix(buf.String(), "{"))
	})
}

func TestFormat(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("csv").IsUnknown())
	assert.Equal(t, []string{"json", "yaml", "table"}, SupportedFormats())
}
