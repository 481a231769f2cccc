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

package getcurrentreplicas

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/pkg/target"
)

// NewCmd creates the "get-current-replicas" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-current-replicas APPLICATION",
		Short: "Print the total replica count over all deployments of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := target.ValidateApplication(args[0]); err != nil {
				return err
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			orchestrator, err := env.ClusterOrchestrator(cmd.Context())
			if err != nil {
				return err
			}

			replicas, err := orchestrator.CurrentReplicas(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(env.Out, replicas)
			return nil
		},
	}
}
