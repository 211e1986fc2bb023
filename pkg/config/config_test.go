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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrirelay/agrirelay/pkg/defaults"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, DefaultChatbaseURL, cfg.ChatbaseURL)
	assert.Equal(t, defaults.UpstreamCallTimeout, cfg.UpstreamTimeout)
	assert.Equal(t, defaults.MaxUploadBytes, cfg.MaxUploadBytes)
	assert.NoError(t, cfg.Validate())

	// Mutating the copy must not leak into the package default.
	cfg.AllowedOrigins[0] = "changed"
	assert.NotEqual(t, "changed", DefaultAllowedOrigins[0])
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		EnvPort:            "8081",
		EnvAllowedOrigins:  "https://a.example.com, https://b.example.com/ ,",
		EnvHFToken:         "hf_secret",
		EnvChatbaseAPIKey:  "cb_key",
		EnvChatbaseBotID:   "bot-1",
		EnvUpstreamTimeout: "15",
		EnvShutdownTimeout: "5",
		EnvMaxUploadBytes:  "1024",
		EnvLogLevel:        "debug",
		EnvGradioSpaceURLs: "akhaliq/Plant-Disease-Classifier=http://localhost:7860/",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "hf_secret", cfg.HFToken)
	assert.Equal(t, "cb_key", cfg.ChatbaseAPIKey)
	assert.Equal(t, "bot-1", cfg.ChatbaseBotID)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, map[string]string{"akhaliq/Plant-Disease-Classifier": "http://localhost:7860"}, cfg.SpaceURLs)
}

func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{EnvPort: "abc"}},
		{"non-numeric timeout", map[string]string{EnvUpstreamTimeout: "soon"}},
		{"zero timeout", map[string]string{EnvUpstreamTimeout: "0"}},
		{"negative shutdown", map[string]string{EnvShutdownTimeout: "-3"}},
		{"bad upload size", map[string]string{EnvMaxUploadBytes: "10MB"}},
		{"space url without space", map[string]string{EnvGradioSpaceURLs: "=http://localhost:7860"}},
		{"space url not a url", map[string]string{EnvGradioSpaceURLs: "a/b=localhost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, cfg.ApplyEnv(mapLookup(tt.env)))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"no upstream timeout", func(c *Config) { c.UpstreamTimeout = 0 }},
		{"no shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
		{"no upload size", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"empty chatbase url", func(c *Config) { c.ChatbaseURL = "" }},
		{"bad space url", func(c *Config) { c.SpaceURLs = map[string]string{"a/b": "ftp://x"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrirelay.yaml")
	content := `port: 7000
allowedOrigins:
  - https://farm.example.com
upstreamTimeout: 20s
chatbaseBotId: file-bot
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv(EnvChatbaseBotID, "env-bot")
	t.Setenv(EnvPort, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, []string{"https://farm.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 20*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "env-bot", cfg.ChatbaseBotID, "environment overrides file")
}

func TestLoadUnknownFieldFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prot: 80\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, ParseOrigins(""))
	assert.Nil(t, ParseOrigins(" , "))
	assert.Equal(t, []string{"*"}, ParseOrigins("*"))
	assert.Equal(t, []string{"http://a", "http://b"}, ParseOrigins("http://a/,http://b"))
}

func TestParseSpaceURLs(t *testing.T) {
	got, err := ParseSpaceURLs(" a/b = http://one:7860/ , c/d=https://two.example,")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a/b": "http://one:7860",
		"c/d": "https://two.example",
	}, got)

	_, err = ParseSpaceURLs("a/b")
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.HFToken = "hf_abcdefghijklmnop"
	cfg.ChatbaseAPIKey = "short"
	cfg.ChatbaseBotID = "bot-123"

	r := cfg.Redacted()
	assert.Equal(t, "hf_abcde…", r.HFToken)
	assert.Equal(t, "…", r.ChatbaseAPIKey)
	assert.Equal(t, "bot-123", r.ChatbaseBotID)

	cfg.SpaceURLs = map[string]string{"a/b": "http://one"}
	r = cfg.Redacted()
	r.SpaceURLs["a/b"] = "changed"
	assert.Equal(t, "http://one", cfg.SpaceURLs["a/b"])

	r.AllowedOrigins[0] = "changed"
	assert.Equal(t, "hf_abcdefghijklmnop", cfg.HFToken, "original must be untouched")
	assert.Equal(t, DefaultAllowedOrigins[0], cfg.AllowedOrigins[0])
}
