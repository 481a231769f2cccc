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

package waitfordeployment

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/pkg/target"
)

// The flag bounds, out of range values are clamped rather than rejected
const (
	maxTimeoutSeconds  = 7200
	minIntervalSeconds = 1
	maxIntervalSeconds = 600
)

// NewCmd creates the "wait-for-deployment" subcommand
func NewCmd() *cobra.Command {
	var timeoutSeconds, intervalSeconds int

	waitCmd := &cobra.Command{
		Use:   "wait-for-deployment APPLICATION VERSION RELEASE",
		Short: "Wait for all pods of a deployment to become ready",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := target.New(args[0], args[1], args[2])
			if err != nil {
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

			timeout := clamp(timeoutSeconds, 0, maxTimeoutSeconds)
			interval := clamp(intervalSeconds, minIntervalSeconds, maxIntervalSeconds)
			return orchestrator.WaitForRollout(cmd.Context(), tgt,
				time.Duration(timeout)*time.Second, time.Duration(interval)*time.Second)
		},
	}

	waitCmd.Flags().IntVarP(&timeoutSeconds, "timeout", "t", 300,
		"Maximum wait time in seconds")
	waitCmd.Flags().IntVarP(&intervalSeconds, "interval", "i", 10,
		"Time between checks in seconds")

	return waitCmd
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
