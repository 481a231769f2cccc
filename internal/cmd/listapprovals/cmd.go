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

package listapprovals

import (
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
)

// NewCmd creates the "list-approvals" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-approvals ID",
		Short: "Show the approvals of a change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			api, err := env.API()
			if err != nil {
				return err
			}

			approvals, err := api.ListApprovals(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			table := tabby.NewCustom(tabwriter.NewWriter(env.Out, 0, 0, 4, ' ', 0))
			table.AddHeader("User", "Created At")
			for _, approval := range approvals {
				table.AddLine(approval.User, approval.CreatedAt)
			}
			table.Print()
			return nil
		},
	}
}
