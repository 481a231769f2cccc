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

package apply

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/pkg/manifest"
)

// NewCmd creates the "apply" subcommand
func NewCmd() *cobra.Command {
	var execute bool

	applyCmd := &cobra.Command{
		Use:   "apply TEMPLATE_OR_DIRECTORY [KEY=VALUE...]",
		Short: "Apply CloudFormation or Kubernetes resources",
		Long: "Renders the template, or every non-hidden *.yaml template of the " +
			"directory, and submits one change request per document.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := manifest.ParseParams(args[1:])
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

			_, err = orchestrator.Apply(cmd.Context(), args[0], params, execute)
			return err
		},
	}

	applyCmd.Flags().BoolVar(&execute, "execute", false,
		"Approve and execute the change requests right away")

	return applyCmd
}
