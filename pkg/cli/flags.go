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

package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/agrirelay/agrirelay/pkg/config"
	"github.com/agrirelay/agrirelay/pkg/serializer"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage: fmt.Sprintf("Path to a YAML configuration file (default: $%s). Environment variables override file values.",
			config.EnvConfigFile),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

// overrideFlags map one-to-one onto Config fields and win over file and
// environment values when set.
func overrideFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Listen port (default: %d)", config.DefaultPort),
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "Listen address (default: all interfaces)",
		},
		&cli.StringFlag{
			Name:  "allowed-origins",
			Usage: `Comma-separated CORS origin allow-list, "*" allows any origin`,
		},
		&cli.DurationFlag{
			Name:  "upstream-timeout",
			Usage: "Timeout for each call to a hosted model or the chatbot (e.g., 60s)",
		},
		&cli.Int64Flag{
			Name:  "max-upload-bytes",
			Usage: "Maximum size of an uploaded image in bytes",
		},
		&cli.DurationFlag{
			Name:  "shutdown-timeout",
			Usage: "Grace period for in-flight requests on shutdown (e.g., 30s)",
		},
	}
}

// loadConfig resolves the configuration from the --config file, the
// environment and any override flags set on cmd.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("address") {
		cfg.Address = cmd.String("address")
	}
	if cmd.IsSet("allowed-origins") {
		cfg.AllowedOrigins = config.ParseOrigins(cmd.String("allowed-origins"))
	}
	if cmd.IsSet("upstream-timeout") {
		cfg.UpstreamTimeout = cmd.Duration("upstream-timeout")
	}
	if cmd.IsSet("max-upload-bytes") {
		cfg.MaxUploadBytes = cmd.Int64("max-upload-bytes")
	}
	if cmd.IsSet("shutdown-timeout") {
		cfg.ShutdownTimeout = cmd.Duration("shutdown-timeout")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
