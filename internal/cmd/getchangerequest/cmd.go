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

package getchangerequest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
)

// NewCmd creates the "get-change-request" subcommand
func NewCmd() *cobra.Command {
	var outputFormat string

	getCmd := &cobra.Command{
		Use:   "get-change-request ID...",
		Short: "Print one or more change requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := cli.OutputFormat(outputFormat)
			if format != cli.OutputFormatYAML && format != cli.OutputFormatJSON {
				return fmt.Errorf("unknown output format %q: must be yaml or json",
					outputFormat)
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			api, err := env.API()
			if err != nil {
				return err
			}

			for _, changeRequestID := range args {
				changeRequest, err := api.GetChangeRequest(cmd.Context(), changeRequestID)
				if err != nil {
					return err
				}
				if err := cli.Print(changeRequest, format, env.Out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	getCmd.Flags().StringVarP(&outputFormat, "output", "o", cli.OutputFormatYAML,
		"Output format (yaml or json)")

	return getCmd
}
