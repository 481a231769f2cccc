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

// Package configuration contains the configuration of the command line,
// stored in the user configuration directory and passed explicitly to
// every component that needs it
package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shipshift/deploy-cli/pkg/fileutils"
)

const (
	configDirName  = "deploy-cli"
	configFileName = "config.yaml"
)

// Data is the configuration of the command line
type Data struct {
	// DeployAPI is the base URL of the deploy API every change request
	// is submitted to
	DeployAPI string `yaml:"deploy_api,omitempty"`

	// AWSAccount is the AWS account whose CloudFormation stacks are
	// managed through the deploy API
	AWSAccount string `yaml:"aws_account,omitempty"`

	// AWSRegion is the region of the managed CloudFormation stacks
	AWSRegion string `yaml:"aws_region,omitempty"`

	// KubernetesAPIServer, when set, overrides the API server of the
	// current kubeconfig context
	KubernetesAPIServer string `yaml:"kubernetes_api_server,omitempty"`

	// KubernetesCluster is the cluster identifier used in deploy API
	// resource paths
	KubernetesCluster string `yaml:"kubernetes_cluster,omitempty"`

	// KubernetesNamespace is the namespace every operation acts on
	KubernetesNamespace string `yaml:"kubernetes_namespace,omitempty"`

	// User is recorded in approvals and sent along as the X-On-Behalf-Of
	// header
	User string `yaml:"user,omitempty"`
}

// Path returns the location of the configuration file
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configDirName, configFileName), nil
}

// Load reads the configuration from its default location. A missing file
// yields an empty configuration, configure was simply never run.
func Load() (Data, error) {
	path, err := Path()
	if err != nil {
		return Data{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration stored at path
func LoadFrom(path string) (Data, error) {
	exists, err := fileutils.FileExists(path)
	if err != nil {
		return Data{}, err
	}
	if !exists {
		return Data{}, nil
	}

	contents, err := os.ReadFile(path) // #nosec
	if err != nil {
		return Data{}, err
	}

	var data Data
	if err := yaml.Unmarshal(contents, &data); err != nil {
		return Data{}, fmt.Errorf("while parsing %s: %w", path, err)
	}
	return data, nil
}

// Store writes the configuration to its default location
func (d Data) Store() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return d.StoreTo(path)
}

// StoreTo writes the configuration to path, creating the parent directory
// when needed
func (d Data) StoreTo(path string) error {
	contents, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	_, err = fileutils.WriteStringToFile(path, string(contents))
	return err
}

// CheckDeployAPI verifies the deploy API endpoint has been configured
func (d Data) CheckDeployAPI() error {
	if d.DeployAPI == "" {
		return errors.New(
			"deploy API URL not configured, run 'deploy-cli configure --deploy-api URL' first")
	}
	return nil
}

// CheckKubernetes verifies the Kubernetes target has been configured
func (d Data) CheckKubernetes() error {
	if d.KubernetesCluster == "" || d.KubernetesNamespace == "" {
		return errors.New(
			"Kubernetes cluster and namespace not configured, " +
				"run 'deploy-cli configure --kubernetes-cluster ID --kubernetes-namespace NAME' first")
	}
	return nil
}

// CheckAWS verifies the AWS target has been configured
func (d Data) CheckAWS() error {
	if d.AWSAccount == "" || d.AWSRegion == "" {
		return errors.New(
			"AWS account and region not configured, " +
				"run 'deploy-cli configure --aws-account ID --aws-region REGION' first")
	}
	return nil
}
