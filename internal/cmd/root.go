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

// Package cmd assembles the deploy-cli command tree
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/cmd/apply"
	"github.com/shipshift/deploy-cli/internal/cmd/applyautoscaling"
	"github.com/shipshift/deploy-cli/internal/cmd/approvechangerequest"
	"github.com/shipshift/deploy-cli/internal/cmd/cli"
	"github.com/shipshift/deploy-cli/internal/cmd/configure"
	"github.com/shipshift/deploy-cli/internal/cmd/createdeployment"
	"github.com/shipshift/deploy-cli/internal/cmd/delete"
	"github.com/shipshift/deploy-cli/internal/cmd/deleteolddeployments"
	"github.com/shipshift/deploy-cli/internal/cmd/encrypt"
	"github.com/shipshift/deploy-cli/internal/cmd/executechangerequest"
	"github.com/shipshift/deploy-cli/internal/cmd/getchangerequest"
	"github.com/shipshift/deploy-cli/internal/cmd/getcurrentreplicas"
	"github.com/shipshift/deploy-cli/internal/cmd/initialize"
	"github.com/shipshift/deploy-cli/internal/cmd/listapprovals"
	"github.com/shipshift/deploy-cli/internal/cmd/listchangerequests"
	"github.com/shipshift/deploy-cli/internal/cmd/promotedeployment"
	"github.com/shipshift/deploy-cli/internal/cmd/rendertemplate"
	"github.com/shipshift/deploy-cli/internal/cmd/resolveversion"
	"github.com/shipshift/deploy-cli/internal/cmd/scaledeployment"
	"github.com/shipshift/deploy-cli/internal/cmd/switchdeployment"
	"github.com/shipshift/deploy-cli/internal/cmd/versions"
	"github.com/shipshift/deploy-cli/internal/cmd/waitfordeployment"
	"github.com/shipshift/deploy-cli/pkg/log"
)

// NewRootCmd builds the deploy-cli root command with every subcommand
// attached
func NewRootCmd() *cobra.Command {
	logFlags := &log.Flags{}

	rootCmd := &cobra.Command{
		Use:          "deploy-cli",
		Short:        "Manage deployments through the deploy API change request workflow",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logFlags.ConfigureLogging()
			return cli.ConfigureColor(cmd)
		},
	}

	logFlags.AddFlags(rootCmd.PersistentFlags())
	cli.AddColorControlFlags(rootCmd)

	rootCmd.AddCommand(apply.NewCmd())
	rootCmd.AddCommand(applyautoscaling.NewCmd())
	rootCmd.AddCommand(approvechangerequest.NewCmd())
	rootCmd.AddCommand(configure.NewCmd())
	rootCmd.AddCommand(createdeployment.NewCmd())
	rootCmd.AddCommand(delete.NewCmd())
	rootCmd.AddCommand(deleteolddeployments.NewCmd())
	rootCmd.AddCommand(encrypt.NewCmd())
	rootCmd.AddCommand(executechangerequest.NewCmd())
	rootCmd.AddCommand(getchangerequest.NewCmd())
	rootCmd.AddCommand(getcurrentreplicas.NewCmd())
	rootCmd.AddCommand(initialize.NewCmd())
	rootCmd.AddCommand(listapprovals.NewCmd())
	rootCmd.AddCommand(listchangerequests.NewCmd())
	rootCmd.AddCommand(promotedeployment.NewCmd())
	rootCmd.AddCommand(rendertemplate.NewCmd())
	rootCmd.AddCommand(resolveversion.NewCmd())
	rootCmd.AddCommand(scaledeployment.NewCmd())
	rootCmd.AddCommand(switchdeployment.NewCmd())
	rootCmd.AddCommand(versions.NewCmd())
	rootCmd.AddCommand(waitfordeployment.NewCmd())

	return rootCmd
}
