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

package resolveversion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/pkg/manifest"
	"github.com/shipshift/deploy-cli/pkg/target"
)

// NewCmd creates the "resolve-version" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-version TEMPLATE APPLICATION VERSION RELEASE [KEY=VALUE...]",
		Short: `Pin the floating "latest" version to the newest image tag`,
		Long: `A fixed VERSION is printed unchanged. "latest" is resolved by ` +
			"rendering the template and querying the Docker registry of the " +
			`container image tagged ":latest" for its newest tag.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := target.New(args[1], args[2], args[3])
			if err != nil {
				return err
			}
			params, err := manifest.ParseParams(args[4:])
			if err != nil {
				return err
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			orchestrator, err := env.RegistryOrchestrator()
			if err != nil {
				return err
			}

			version, err := orchestrator.ResolveVersion(cmd.Context(), args[0], tgt, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(env.Out, version)
			return nil
		},
	}
}
