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

package delete

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thoas/go-funk"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
)

// The resource platforms a deletion can act on
const (
	platformKubernetes     = "kubernetes"
	platformCloudFormation = "cloudformation"
)

// NewCmd creates the "delete" subcommand
func NewCmd() *cobra.Command {
	var execute bool

	deleteCmd := &cobra.Command{
		Use:   "delete {kubernetes KIND/NAME | cloudformation STACK}",
		Short: "Delete a Kubernetes resource or a CloudFormation stack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := args[0]
			if !funk.ContainsString(
				[]string{platformKubernetes, platformCloudFormation}, platform) {
				return fmt.Errorf("unknown platform %q: must be %s or %s",
					platform, platformKubernetes, platformCloudFormation)
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			orchestrator, err := env.Orchestrator(cmd.Context(), false)
			if err != nil {
				return err
			}

			if platform == platformCloudFormation {
				_, err = orchestrator.DeleteCloudFormationStack(cmd.Context(), args[1], execute)
				return err
			}

			kind, name, found := strings.Cut(args[1], "/")
			if !found || kind == "" || name == "" {
				return fmt.Errorf(
					"invalid Kubernetes resource %q: must have the form KIND/NAME", args[1])
			}
			_, err = orchestrator.DeleteKubernetesResource(cmd.Context(), kind, name, execute)
			return err
		},
	}

	deleteCmd.Flags().BoolVar(&execute, "execute", false,
		"Approve and execute the change request right away")

	return deleteCmd
}
