/*
Copyright The Shipshift Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rendertemplate

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/pkg/manifest"
)

// NewCmd creates the "render-template" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render-template TEMPLATE [KEY=VALUE...]",
		Short: "Interpolate a YAML template and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := manifest.ParseParams(args[1:])
			if err != nil {
				return err
			}

			rendered, err := manifest.RenderFile(args[0], params)
			if err != nil {
				return err
			}
			contents, err := rendered.YAML()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(contents)
			return err
		},
	}
}
