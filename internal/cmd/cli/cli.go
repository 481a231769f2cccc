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

// Package cli contains the plumbing shared by every deploy-cli subcommand:
// loading the stored configuration, building the collaborator clients and
// formatting output
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/shipshift/deploy-cli/internal/configuration"
	"github.com/shipshift/deploy-cli/internal/deploy"
	"github.com/shipshift/deploy-cli/pkg/auth"
	"github.com/shipshift/deploy-cli/pkg/deployapi"
	"github.com/shipshift/deploy-cli/pkg/kube"
	"github.com/shipshift/deploy-cli/pkg/registry"
)

// Env ties one command execution to the stored configuration and to the
// output stream of the command
type Env struct {
	Config configuration.Data
	Out    io.Writer
}

// NewEnv loads the stored configuration for a command execution
func NewEnv(cmd *cobra.Command) (*Env, error) {
	config, err := configuration.Load()
	if err != nil {
		return nil, err
	}
	return &Env{Config: config, Out: cmd.OutOrStdout()}, nil
}

// API builds the deploy API client from the configured endpoint and the
// stored token
func (e *Env) API() (*deployapi.Client, error) {
	if err := e.Config.CheckDeployAPI(); err != nil {
		return nil, err
	}
	token, err := auth.GetToken()
	if err != nil {
		return nil, err
	}
	return deployapi.New(e.Config.DeployAPI, token, e.Config.User), nil
}

// Orchestrator builds the deployment orchestrator. The Kubernetes login
// is only performed for the operations that read cluster state.
func (e *Env) Orchestrator(ctx context.Context, withCluster bool) (*deploy.Orchestrator, error) {
	api, err := e.API()
	if err != nil {
		return nil, err
	}

	orchestrator := &deploy.Orchestrator{
		Config: e.Config,
		API:    api,
		Out:    e.Out,
	}
	if withCluster {
		cluster, err := kube.Login(ctx, e.Config.KubernetesAPIServer)
		if err != nil {
			return nil, err
		}
		orchestrator.Cluster = cluster
	}
	return orchestrator, nil
}

// ClusterOrchestrator builds an orchestrator for the commands that only
// read cluster state and never talk to the deploy API
func (e *Env) ClusterOrchestrator(ctx context.Context) (*deploy.Orchestrator, error) {
	cluster, err := kube.Login(ctx, e.Config.KubernetesAPIServer)
	if err != nil {
		return nil, err
	}
	return &deploy.Orchestrator{
		Config:  e.Config,
		Cluster: cluster,
		Out:     e.Out,
	}, nil
}

// RegistryOrchestrator builds an orchestrator for version resolution
// against the Docker registry, which shares the platform token
func (e *Env) RegistryOrchestrator() (*deploy.Orchestrator, error) {
	token, err := auth.GetToken()
	if err != nil {
		return nil, err
	}
	return &deploy.Orchestrator{
		Config:   e.Config,
		Registry: registry.New(token),
		Out:      e.Out,
	}, nil
}
