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

package promotedeployment

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/pkg/target"
)

// NewCmd creates the "promote-deployment" subcommand
func NewCmd() *cobra.Command {
	var execute bool

	promoteCmd := &cobra.Command{
		Use:   "promote-deployment APPLICATION VERSION RELEASE STAGE",
		Short: "Promote a deployment to a different stage",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := target.New(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			orchestrator, err := env.Orchestrator(cmd.Context(), false)
			if err != nil {
				return err
			}

			_, err = orchestrator.Promote(cmd.Context(), tgt, args[3], execute)
			return err
		},
	}

	promoteCmd.Flags().BoolVar(&execute, "execute", false,
		"Approve and execute the change request right away")

	return promoteCmd
}
