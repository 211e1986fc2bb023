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
	"bytes"
	"fmt"
	"maps"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agrirelay/agrirelay/pkg/defaults"
	"github.com/agrirelay/agrirelay/pkg/logging"
)

// Environment variable names recognized by Load.
const (
	EnvConfigFile      = "AGRIRELAY_CONFIG"
	EnvPort            = "PORT"
	EnvAddress         = "BIND_ADDRESS"
	EnvAllowedOrigins  = "ALLOWED_ORIGINS"
	EnvHFToken         = "HF_API_TOKEN"
	EnvChatbaseAPIKey  = "CHATBASE_API_KEY"
	EnvChatbaseBotID   = "CHATBASE_BOT_ID"
	EnvChatbaseURL     = "CHATBASE_URL"
	EnvGradioBaseURL   = "GRADIO_BASE_URL"
	EnvGradioSpaceURLs = "GRADIO_SPACE_URLS"
	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT_SECONDS"
	EnvMaxUploadBytes  = "MAX_UPLOAD_BYTES"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvLogLevel        = "LOG_LEVEL"
)

// DefaultChatbaseURL is the chat-completion endpoint of the chatbot host.
const DefaultChatbaseURL = "https://www.chatbase.co/api/v1/chat"

// DefaultPort matches the port the web client expects in development.
const DefaultPort = 5000

// DefaultAllowedOrigins are the local web client dev servers.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config is the process configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Port    int    `yaml:"port" json:"port"`
	Address string `yaml:"address" json:"address"`

	// AllowedOrigins is the CORS allow-list. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`

	// HFToken authenticates calls to hosted models.
	HFToken string `yaml:"hfToken" json:"hfToken"`

	ChatbaseAPIKey string `yaml:"chatbaseApiKey" json:"chatbaseApiKey"`
	ChatbaseBotID  string `yaml:"chatbaseBotId" json:"chatbaseBotId"`
	ChatbaseURL    string `yaml:"chatbaseUrl" json:"chatbaseUrl"`

	// GradioBaseURL overrides the base URL of every space. Mostly useful to
	// point all model calls at one local stub.
	GradioBaseURL string `yaml:"gradioBaseUrl" json:"gradioBaseUrl"`

	// SpaceURLs overrides the base URL of individual spaces, keyed by space
	// id. It wins over GradioBaseURL.
	SpaceURLs map[string]string `yaml:"spaceUrls" json:"spaceUrls,omitempty"`

	UpstreamTimeout time.Duration `yaml:"upstreamTimeout" json:"upstreamTimeout"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes" json:"maxUploadBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`

	LogLevel string `yaml:"logLevel" json:"logLevel"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		AllowedOrigins:  append([]string(nil), DefaultAllowedOrigins...),
		ChatbaseURL:     DefaultChatbaseURL,
		UpstreamTimeout: defaults.UpstreamCallTimeout,
		MaxUploadBytes:  defaults.MaxUploadBytes,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
		LogLevel:        "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// process environment, in that order of precedence (later wins). An empty
// path falls back to AGRIRELAY_CONFIG; no file at all is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables resolved by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvAddress, &c.Address)
	str(EnvHFToken, &c.HFToken)
	str(EnvChatbaseAPIKey, &c.ChatbaseAPIKey)
	str(EnvChatbaseBotID, &c.ChatbaseBotID)
	str(EnvChatbaseURL, &c.ChatbaseURL)
	str(EnvGradioBaseURL, &c.GradioBaseURL)
	str(EnvLogLevel, &c.LogLevel)

	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}

	if v, ok := lookup(EnvAllowedOrigins); ok && v != "" {
		c.AllowedOrigins = ParseOrigins(v)
	}

	if v, ok := lookup(EnvGradioSpaceURLs); ok && v != "" {
		urls, err := ParseSpaceURLs(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvGradioSpaceURLs, v, err)
		}
		c.SpaceURLs = urls
	}

	if v, ok := lookup(EnvUpstreamTimeout); ok && v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvUpstreamTimeout, v, err)
		}
		c.UpstreamTimeout = d
	}

	if v, ok := lookup(EnvShutdownTimeout); ok && v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvShutdownTimeout, v, err)
		}
		c.ShutdownTimeout = d
	}

	if v, ok := lookup(EnvMaxUploadBytes); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxUploadBytes, v, err)
		}
		c.MaxUploadBytes = n
	}

	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %v", c.UpstreamTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", c.ShutdownTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.ChatbaseURL == "" {
		return fmt.Errorf("chatbase url cannot be empty")
	}
	for space, u := range c.SpaceURLs {
		if err := checkURL(u); err != nil {
			return fmt.Errorf("space %s: %w", space, err)
		}
	}
	return nil
}

// Redacted returns a copy safe to print or log: secrets keep only a short
// prefix.
func (c *Config) Redacted() *Config {
	out := *c
	out.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	out.SpaceURLs = maps.Clone(c.SpaceURLs)
	out.HFToken = logging.Redact(c.HFToken)
	out.ChatbaseAPIKey = logging.Redact(c.ChatbaseAPIKey)
	return &out
}

// ParseOrigins splits a comma-separated origin list, trimming whitespace and
// trailing slashes and dropping empty entries.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ParseSpaceURLs parses "space=url" pairs separated by commas, for example
// "akhaliq/Plant-Disease-Classifier=http://localhost:7860".
func ParseSpaceURLs(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		space, u, ok := strings.Cut(pair, "=")
		space, u = strings.TrimSpace(space), strings.TrimSpace(u)
		if !ok || space == "" || u == "" {
			return nil, fmt.Errorf("expected space=url, got %q", pair)
		}
		if err := checkURL(u); err != nil {
			return nil, err
		}
		out[space] = strings.TrimRight(u, "/")
	}
	return out, nil
}

func checkURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", s, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: want http(s)://host", s)
	}
	return nil
}

func parseSeconds(v string) (time.Duration, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return time.Duration(seconds) * time.Second, nil
}
