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

package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/agrirelay/agrirelay/pkg/chatbase"
	"github.com/agrirelay/agrirelay/pkg/config"
	"github.com/agrirelay/agrirelay/pkg/defaults"
	"github.com/agrirelay/agrirelay/pkg/gradio"
	"github.com/agrirelay/agrirelay/pkg/logging"
	"github.com/agrirelay/agrirelay/pkg/relay"
	"github.com/agrirelay/agrirelay/pkg/server"
	"github.com/agrirelay/agrirelay/pkg/upstream"
)

const (
	name           = "agrirelay"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/agrirelay/agrirelay/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// NewServer wires the relay routes onto a server built from cfg. It does not
// start listening.
func NewServer(cfg *config.Config) *server.Server {
	httpc := newUpstreamClient(cfg)

	dialer := &gradio.Dialer{
		HTTP:      httpc,
		Token:     cfg.HFToken,
		SpaceURLs: cfg.SpaceURLs,
		BaseURL:   cfg.GradioBaseURL,
	}
	chat := chatbase.New(cfg.ChatbaseURL, cfg.ChatbaseAPIKey, cfg.ChatbaseBotID, httpc)

	rl := relay.New(relay.GradioConnector(dialer), chat,
		relay.WithMaxUploadBytes(cfg.MaxUploadBytes),
		relay.WithUpstreamTimeout(cfg.UpstreamTimeout),
	)

	return server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithAddress(cfg.Address, cfg.Port),
		server.WithAllowedOrigins(cfg.AllowedOrigins),
		server.WithWriteTimeout(writeTimeout(cfg)),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithHandler(rl.Routes()),
	)
}

// newUpstreamClient builds the shared outbound client. Hosted models and the
// chatbot send no headers until the answer is ready, so the header timeout
// follows the configured upstream timeout instead of the transport default.
func newUpstreamClient(cfg *config.Config) *upstream.Client {
	return upstream.NewClient(
		upstream.WithUserAgent(name+"/"+version),
		upstream.WithTotalTimeout(cfg.UpstreamTimeout),
		upstream.WithResponseHeaderTimeout(cfg.UpstreamTimeout),
	)
}

// writeTimeout keeps the response deadline past the upstream timeout so a
// slow adapter still gets to write its JSON error.
func writeTimeout(cfg *config.Config) time.Duration {
	return max(defaults.ServerWriteTimeout, cfg.UpstreamTimeout+defaults.ServerWriteTimeoutMargin)
}

// Serve starts the API server and blocks until ctx is canceled or the
// process is signaled. It configures logging from cfg first.
func Serve(ctx context.Context, cfg *config.Config) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	safe := cfg.Redacted()
	slog.Info("configuration",
		"allowedOrigins", safe.AllowedOrigins,
		"hfToken", safe.HFToken,
		"chatbaseBotID", safe.ChatbaseBotID,
		"chatbaseApiKey", safe.ChatbaseAPIKey,
		"spaceUrls", safe.SpaceURLs,
		"upstreamTimeout", safe.UpstreamTimeout.String(),
		"maxUploadBytes", safe.MaxUploadBytes,
	)
	if cfg.ChatbaseAPIKey == "" || cfg.ChatbaseBotID == "" {
		slog.Warn("chatbot credentials are not set, /api/chatbase will fail upstream")
	}

	s := NewServer(cfg)
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
