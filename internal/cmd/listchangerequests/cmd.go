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

package listchangerequests

import (
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/logrusorgru/aurora/v4"
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
)

// NewCmd creates the "list-change-requests" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-change-requests",
		Short: "List the change requests known to the deploy API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			api, err := env.API()
			if err != nil {
				return err
			}

			changeRequests, err := api.ListChangeRequests(cmd.Context())
			if err != nil {
				return err
			}

			table := tabby.NewCustom(tabwriter.NewWriter(env.Out, 0, 0, 4, ' ', 0))
			table.AddHeader("ID", "Platform", "Kind", "User", "Executed")
			for _, changeRequest := range changeRequests {
				table.AddLine(
					changeRequest.ID,
					changeRequest.Platform,
					changeRequest.Kind,
					changeRequest.User,
					executedCell(changeRequest.Executed),
				)
			}
			table.Print()
			return nil
		},
	}
}

func executedCell(executed bool) string {
	if executed {
		return aurora.Green("true").String()
	}
	return aurora.Yellow("false").String()
}
