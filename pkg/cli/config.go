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
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/agrirelay/agrirelay/pkg/serializer"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Description: `Resolves the configuration exactly as serve would and prints it.
Secrets are shown with their first 8 characters only.`,
		Flags: append([]cli.Flag{configFlag(), formatFlag()}, overrideFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return serializer.NewWriter(outFormat, cmd.Root().Writer).Serialize(cfg.Redacted())
		},
	}
}
