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

package encrypt

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
)

// NewCmd creates the "encrypt" subcommand
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt plain text (read from stdin) for deployment configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plaintext, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}

			env, err := cli.NewEnv(cmd)
			if err != nil {
				return err
			}
			api, err := env.API()
			if err != nil {
				return err
			}

			data, err := api.EncryptSecret(cmd.Context(), string(plaintext))
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "deployment-secret:%s\n", data)
			return nil
		},
	}
}
