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
	"context"

	"github.com/urfave/cli/v3"

	"github.com/agrirelay/agrirelay/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP relay",
		Description: `Starts the relay and blocks until interrupted. Configuration is resolved
from defaults, the --config file, environment variables and finally flags:

  PORT, BIND_ADDRESS, ALLOWED_ORIGINS, HF_API_TOKEN, CHATBASE_API_KEY,
  CHATBASE_BOT_ID, CHATBASE_URL, GRADIO_BASE_URL, GRADIO_SPACE_URLS,
  UPSTREAM_TIMEOUT_SECONDS,
  MAX_UPLOAD_BYTES, SHUTDOWN_TIMEOUT_SECONDS, LOG_LEVEL`,
		Flags: append([]cli.Flag{configFlag()}, overrideFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return api.Serve(ctx, cfg)
		},
	}
}
