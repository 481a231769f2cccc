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

package configure

import (
	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/configuration"
	"github.com/shipshift/deploy-cli/pkg/auth"
)

// NewCmd creates the "configure" subcommand
func NewCmd() *cobra.Command {
	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Create or update the stored deploy-cli configuration",
		Long: "Only the explicitly passed flags overwrite stored values, " +
			"so the configuration can be built up one key at a time.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	configureCmd.Flags().String("deploy-api", "", "Base URL of the deploy API")
	configureCmd.Flags().String("aws-account", "", "AWS account of the managed CloudFormation stacks")
	configureCmd.Flags().String("aws-region", "", "AWS region of the managed CloudFormation stacks")
	configureCmd.Flags().String("kubernetes-api-server", "", "URL of the Kubernetes API server")
	configureCmd.Flags().String("kubernetes-cluster", "",
		"Cluster identifier, e.g. aws:123456789012:eu-central-1:demo")
	configureCmd.Flags().String("kubernetes-namespace", "", "Namespace the deployments live in")
	configureCmd.Flags().String("user", "", "Username to use for approvals (optional)")
	configureCmd.Flags().String("token", "", "Store a deploy API token in the system keyring")

	return configureCmd
}

func run(cmd *cobra.Command) error {
	config, err := configuration.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for flagName, field := range map[string]*string{
		"deploy-api":            &config.DeployAPI,
		"aws-account":           &config.AWSAccount,
		"aws-region":            &config.AWSRegion,
		"kubernetes-api-server": &config.KubernetesAPIServer,
		"kubernetes-cluster":    &config.KubernetesCluster,
		"kubernetes-namespace":  &config.KubernetesNamespace,
		"user":                  &config.User,
	} {
		if !flags.Changed(flagName) {
			continue
		}
		value, err := flags.GetString(flagName)
		if err != nil {
			return err
		}
		*field = value
	}

	if err := config.Store(); err != nil {
		return err
	}

	if flags.Changed("token") {
		token, err := flags.GetString("token")
		if err != nil {
			return err
		}
		return auth.StoreToken(token)
	}
	return nil
}
