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

// Package kube gives the command line read access to the deployments and
// pods of the target Kubernetes cluster
package kube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/discovery"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/shipshift/deploy-cli/pkg/log"
	"github.com/shipshift/deploy-cli/pkg/versions"
)

// ErrNotLoggedIn means no usable Kubernetes client configuration was found
var ErrNotLoggedIn = errors.New("not logged in to a Kubernetes cluster")

// loginRetry is the backoff used to wait for the API server to answer the
// initial discovery ping
var loginRetry = wait.Backoff{
	Steps:    4,
	Duration: 200 * time.Millisecond,
	Factor:   3.0,
	Jitter:   0.1,
}

// Client reads cluster state on behalf of the command line
type Client struct {
	client client.Client
}

// Login connects to the cluster the client configuration points at. When
// apiServer is not empty it overrides the kubeconfig one. The API server
// is pinged before any operation is attempted, so a dead cluster surfaces
// here rather than in the middle of a deployment.
func Login(ctx context.Context, apiServer string) (*Client, error) {
	contextLogger := log.FromContext(ctx)

	configFlags := genericclioptions.NewConfigFlags(true)
	if apiServer != "" {
		configFlags.APIServer = &apiServer
	}

	cfg, err := configFlags.ToRawKubeConfigLoader().ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}
	cfg.UserAgent = fmt.Sprintf("deploy-cli/v%s (%s)", versions.Version, versions.Info.Commit)

	kubeClient, err := client.New(cfg, client.Options{Scheme: BuildScheme()})
	if err != nil {
		return nil, err
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, err
	}

	isTransient := func(err error) bool {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return false
		}
		contextLogger.Debug("API server not answering yet, retrying", "error", err)
		return true
	}
	if err := retry.OnError(loginRetry, isTransient, func() error {
		_, err := discoveryClient.ServerVersion()
		return err
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}

	return &Client{client: kubeClient}, nil
}

// NewFromClient wraps an existing controller-runtime client. Mainly used
// inside the unit tests.
func NewFromClient(kubeClient client.Client) *Client {
	return &Client{client: kubeClient}
}

// BuildScheme returns the runtime scheme with every API the command line
// reads
func BuildScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = clientgoscheme.AddToScheme(scheme)
	return scheme
}

// Deployments lists the deployments matching the label set in the given
// namespace
func (c *Client) Deployments(
	ctx context.Context,
	namespace string,
	labels map[string]string,
) ([]appsv1.Deployment, error) {
	var list appsv1.DeploymentList
	if err := c.client.List(ctx, &list,
		client.InNamespace(namespace),
		client.MatchingLabels(labels),
	); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Pods lists the pods matching the label set in the given namespace
func (c *Client) Pods(
	ctx context.Context,
	namespace string,
	labels map[string]string,
) ([]corev1.Pod, error) {
	var list corev1.PodList
	if err := c.client.List(ctx, &list,
		client.InNamespace(namespace),
		client.MatchingLabels(labels),
	); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// DeploymentNames extracts the resource names of a deployment list
func DeploymentNames(deployments []appsv1.Deployment) []string {
	names := make([]string, 0, len(deployments))
	for idx := range deployments {
		names = append(names, deployments[idx].Name)
	}
	return names
}

// TotalReplicas sums the replicas the deployments currently report
func TotalReplicas(deployments []appsv1.Deployment) int32 {
	var total int32
	for idx := range deployments {
		total += deployments[idx].Status.Replicas
	}
	return total
}

// ReadyPods counts the pods running with every container ready
func ReadyPods(pods []corev1.Pod) int {
	ready := 0
	for idx := range pods {
		if isPodReady(&pods[idx]) {
			ready++
		}
	}
	return ready
}

func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, containerStatus := range pod.Status.ContainerStatuses {
		if !containerStatus.Ready {
			return false
		}
	}
	return true
}
