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

package switchdeployment

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/pkg/target"
	"github.com/shipshift/deploy-cli/pkg/traffic"
)

// NewCmd creates the "switch-deployment" subcommand
func NewCmd() *cobra.Command {
	var execute bool

	switchCmd := &cobra.Command{
		Use:   "switch-deployment APPLICATION VERSION RELEASE RATIO",
		Short: "Switch the traffic share of a deployment",
		Long: "Rescales every deployment of the application so the target " +
			`holds the requested share, e.g. a RATIO of "2/4" gives the ` +
			"target two of four replicas and moves the rest to the " +
			"previously active deployment.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := target.New(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			ratio, err := traffic.ParseRatio(args[3])
			if err != nil {
				return err
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			orchestrator, err := env.Orchestrator(cmd.Context(), true)
			if err != nil {
				return err
			}

			_, err = orchestrator.Switch(cmd.Context(), tgt, ratio, execute)
			return err
		},
	}

	switchCmd.Flags().BoolVar(&execute, "execute", false,
		"Approve and execute the change request right away")

	return switchCmd
}
