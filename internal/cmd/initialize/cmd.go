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

package initialize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/scaffold"
)

// NewCmd creates the "init" subcommand
func NewCmd() *cobra.Command {
	var templateID, clusterID string

	initCmd := &cobra.Command{
		Use:   "init [DIRECTORY]",
		Short: "Initialize a new deploy folder with Kubernetes manifests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := "."
			if len(args) > 0 {
				directory = args[0]
			}

			out := cmd.OutOrStdout()
			vars, err := clusterVariables(clusterID, cmd.InOrStdin(), out)
			if err != nil {
				return err
			}

			notes, err := scaffold.Write(directory, templateID, vars, out)
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprint(out, notes)
			return nil
		},
	}

	initCmd.Flags().StringVarP(&templateID, "template", "t", scaffold.DefaultTemplateID,
		"The deploy folder template to use")
	initCmd.Flags().StringVar(&clusterID, "kubernetes-cluster", "",
		"Target cluster identifier, e.g. aws:123456789012:eu-central-1:demo")

	return initCmd
}

// clusterVariables derives the scaffold variables from the flag, falling
// back to prompting until a well formed cluster identifier comes in
func clusterVariables(clusterID string, in io.Reader, out io.Writer) (scaffold.Variables, error) {
	if clusterID != "" {
		return scaffold.VariablesForCluster(clusterID)
	}

	fmt.Fprintln(out, "Please select your target Kubernetes cluster")
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Kubernetes cluster ID to use: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return scaffold.Variables{}, errors.New(
					"no cluster identifier given, pass --kubernetes-cluster")
			}
			return scaffold.Variables{}, err
		}

		vars, err := scaffold.VariablesForCluster(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(out, err.Error())
			continue
		}
		return vars, nil
	}
}
