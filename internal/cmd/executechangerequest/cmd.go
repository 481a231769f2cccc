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

package executechangerequest

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
)

// NewCmd creates the "execute-change-request" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute-change-request ID...",
		Short: "Execute one or more approved change requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			api, err := env.API()
			if err != nil {
				return err
			}

			for _, changeRequestID := range args {
				if err := api.Execute(cmd.Context(), changeRequestID); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
