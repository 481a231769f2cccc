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

// Package deploy drives versioned deployments through the deploy API:
// traffic switches, scaling, promotion and cleanup are planned from the
// observed cluster state and submitted as change requests
package deploy

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shipshift/deploy-cli/internal/configuration"
	"github.com/shipshift/deploy-cli/pkg/deployapi"
	"github.com/shipshift/deploy-cli/pkg/kube"
	"github.com/shipshift/deploy-cli/pkg/log"
	"github.com/shipshift/deploy-cli/pkg/manifest"
	"github.com/shipshift/deploy-cli/pkg/registry"
	"github.com/shipshift/deploy-cli/pkg/target"
	"github.com/shipshift/deploy-cli/pkg/traffic"
	"github.com/shipshift/deploy-cli/pkg/update"
)

// Orchestrator coordinates the deployment operations of one configured
// environment. Cluster state is only ever read, every mutation travels
// through the deploy API as a change request.
type Orchestrator struct {
	Config   configuration.Data
	API      *deployapi.Client
	Cluster  *kube.Client
	Registry *registry.Client
	Out      io.Writer
}

// Switch moves the requested traffic share to the target deployment by
// rescaling every deployment of the application. The change request ID is
// returned once submitted.
func (o *Orchestrator) Switch(
	ctx context.Context,
	tgt target.Target,
	ratio traffic.Ratio,
	execute bool,
) (string, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return "", err
	}

	deployments, err := o.Cluster.Deployments(ctx,
		o.Config.KubernetesNamespace, target.ApplicationLabels(tgt.Application))
	if err != nil {
		return "", err
	}

	assignments, err := traffic.Split(
		kube.DeploymentNames(deployments), tgt.DeploymentName(), ratio)
	if err != nil {
		return "", err
	}

	resourcesUpdate := update.New()
	for _, assignment := range assignments {
		fmt.Fprintf(o.Out, "Scaling deployment %s to %d replicas..\n",
			assignment.Name, assignment.Replicas)
		resourcesUpdate.SetNumberOfReplicas(
			assignment.Name, update.DeploymentsKind, assignment.Replicas)
	}

	changeRequestID, err := o.API.PatchResources(ctx,
		o.Config.KubernetesCluster, o.Config.KubernetesNamespace, resourcesUpdate)
	if err != nil {
		return "", err
	}
	return o.finish(ctx, changeRequestID, execute)
}

// Scale sets the replica count of the target deployment
func (o *Orchestrator) Scale(
	ctx context.Context,
	tgt target.Target,
	replicas int32,
	execute bool,
) (string, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return "", err
	}

	name := tgt.DeploymentName()
	fmt.Fprintf(o.Out, "Scaling deployment %s to %d replicas..\n", name, replicas)

	resourcesUpdate := update.New()
	resourcesUpdate.SetNumberOfReplicas(name, update.DeploymentsKind, replicas)

	changeRequestID, err := o.API.PatchResources(ctx,
		o.Config.KubernetesCluster, o.Config.KubernetesNamespace, resourcesUpdate)
	if err != nil {
		return "", err
	}
	return o.finish(ctx, changeRequestID, execute)
}

// Promote relabels the target deployment with a new stage
func (o *Orchestrator) Promote(
	ctx context.Context,
	tgt target.Target,
	stage string,
	execute bool,
) (string, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return "", err
	}

	name := tgt.DeploymentName()
	fmt.Fprintf(o.Out, "Promoting deployment %s to %s stage..\n", name, stage)

	resourcesUpdate := update.New()
	resourcesUpdate.SetLabel(name, update.DeploymentsKind, "stage", stage)

	changeRequestID, err := o.API.PatchResources(ctx,
		o.Config.KubernetesCluster, o.Config.KubernetesNamespace, resourcesUpdate)
	if err != nil {
		return "", err
	}
	return o.finish(ctx, changeRequestID, execute)
}

// DeleteOld submits one deletion change request for every deployment of
// the application except the target, newest name first. The IDs of the
// submitted change requests are returned, also when a later submission
// fails.
func (o *Orchestrator) DeleteOld(
	ctx context.Context,
	tgt target.Target,
	execute bool,
) ([]string, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return nil, err
	}

	deployments, err := o.Cluster.Deployments(ctx,
		o.Config.KubernetesNamespace, target.ApplicationLabels(tgt.Application))
	if err != nil {
		return nil, err
	}

	names := kube.DeploymentNames(deployments)
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	targetName := tgt.DeploymentName()
	targetFound := false
	var toDelete []string
	for _, name := range names {
		if name == targetName {
			targetFound = true
		} else {
			toDelete = append(toDelete, name)
		}
	}
	if !targetFound {
		return nil, &target.NotFoundError{Name: targetName}
	}

	var changeRequestIDs []string
	for _, name := range toDelete {
		fmt.Fprintf(o.Out, "Deleting deployment %s..\n", name)
		changeRequestID, err := o.API.DeleteResource(ctx,
			o.Config.KubernetesCluster, o.Config.KubernetesNamespace,
			update.DeploymentsKind, name)
		if err != nil {
			return changeRequestIDs, err
		}
		if _, err := o.finish(ctx, changeRequestID, execute); err != nil {
			return changeRequestIDs, err
		}
		changeRequestIDs = append(changeRequestIDs, changeRequestID)
	}
	return changeRequestIDs, nil
}

// WaitForRollout polls the pods of the target deployment until every one
// of them is running with all containers ready, or the timeout elapses.
// A deployment without any pod never counts as ready.
func (o *Orchestrator) WaitForRollout(
	ctx context.Context,
	tgt target.Target,
	timeout, interval time.Duration,
) error {
	if err := o.Config.CheckKubernetes(); err != nil {
		return err
	}

	contextLogger := log.FromContext(ctx)
	name := tgt.DeploymentName()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		pods, err := o.Cluster.Pods(ctx, o.Config.KubernetesNamespace, tgt.Labels())
		if err != nil {
			return err
		}

		ready := kube.ReadyPods(pods)
		if len(pods) > 0 && ready >= len(pods) {
			contextLogger.Debug("Deployment ready", "deployment", name, "pods", len(pods))
			return nil
		}

		fmt.Fprintf(o.Out, "Waiting up to %.0f more secs for deployment %s (%d/%d pods ready)..\n",
			time.Until(deadline).Seconds(), name, ready, len(pods))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return &TimeoutError{Deployment: name, Timeout: timeout}
}

// CurrentReplicas sums the replicas currently reported by every
// deployment of the application
func (o *Orchestrator) CurrentReplicas(
	ctx context.Context,
	application string,
) (int32, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return 0, err
	}

	deployments, err := o.Cluster.Deployments(ctx,
		o.Config.KubernetesNamespace, target.ApplicationLabels(application))
	if err != nil {
		return 0, err
	}
	return kube.TotalReplicas(deployments), nil
}

// CreateFromTemplate renders a manifest template with the target triple
// and the extra parameters, and submits it as a new Kubernetes resource
func (o *Orchestrator) CreateFromTemplate(
	ctx context.Context,
	templatePath string,
	tgt target.Target,
	params map[string]string,
	execute bool,
) (string, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return "", err
	}

	rendered, err := manifest.RenderFile(templatePath, targetContext(tgt, params))
	if err != nil {
		return "", err
	}
	body, err := rendered.JSON()
	if err != nil {
		return "", err
	}

	changeRequestID, err := o.API.ApplyResource(ctx,
		o.Config.KubernetesCluster, o.Config.KubernetesNamespace, body)
	if err != nil {
		return "", err
	}
	return o.finish(ctx, changeRequestID, execute)
}

// Apply renders one template file or every template of a directory, and
// submits each document to the platform it belongs to. The IDs of the
// submitted change requests are returned.
func (o *Orchestrator) Apply(
	ctx context.Context,
	templateOrDirectory string,
	params map[string]string,
	execute bool,
) ([]string, error) {
	paths, err := manifest.TemplatePaths(templateOrDirectory)
	if err != nil {
		return nil, err
	}

	var changeRequestIDs []string
	for _, path := range paths {
		rendered, err := manifest.RenderFile(path, params)
		if err != nil {
			return changeRequestIDs, err
		}

		var changeRequestID string
		switch {
		case rendered.IsKubernetes():
			if err := o.Config.CheckKubernetes(); err != nil {
				return changeRequestIDs, err
			}
			fmt.Fprintf(o.Out, "Applying Kubernetes manifest %s..\n", path)
			body, err := rendered.JSON()
			if err != nil {
				return changeRequestIDs, err
			}
			changeRequestID, err = o.API.ApplyResource(ctx,
				o.Config.KubernetesCluster, o.Config.KubernetesNamespace, body)
			if err != nil {
				return changeRequestIDs, err
			}

		case rendered.IsCloudFormation():
			if err := o.Config.CheckAWS(); err != nil {
				return changeRequestIDs, err
			}
			fmt.Fprintf(o.Out, "Applying Cloud Formation template %s..\n", path)
			stackName, err := rendered.StackName()
			if err != nil {
				return changeRequestIDs, err
			}
			body, err := rendered.JSON()
			if err != nil {
				return changeRequestIDs, err
			}
			changeRequestID, err = o.API.ApplyCloudFormationStack(ctx,
				o.Config.AWSAccount, o.Config.AWSRegion, stackName, body)
			if err != nil {
				return changeRequestIDs, err
			}

		default:
			return changeRequestIDs, fmt.Errorf(
				"neither a Kubernetes manifest nor a Cloud Formation template: %s", path)
		}

		if _, err := o.finish(ctx, changeRequestID, execute); err != nil {
			return changeRequestIDs, err
		}
		changeRequestIDs = append(changeRequestIDs, changeRequestID)
	}
	return changeRequestIDs, nil
}

// DeleteKubernetesResource submits the deletion of one named resource
func (o *Orchestrator) DeleteKubernetesResource(
	ctx context.Context,
	kind, name string,
	execute bool,
) (string, error) {
	if err := o.Config.CheckKubernetes(); err != nil {
		return "", err
	}

	fmt.Fprintf(o.Out, "Deleting Kubernetes %s %s..\n", kind, name)
	changeRequestID, err := o.API.DeleteResource(ctx,
		o.Config.KubernetesCluster, o.Config.KubernetesNamespace, kind, name)
	if err != nil {
		return "", err
	}
	return o.finish(ctx, changeRequestID, execute)
}

// DeleteCloudFormationStack submits the deletion of a CloudFormation stack
func (o *Orchestrator) DeleteCloudFormationStack(
	ctx context.Context,
	stackName string,
	execute bool,
) (string, error) {
	if err := o.Config.CheckAWS(); err != nil {
		return "", err
	}

	fmt.Fprintf(o.Out, "Deleting Cloud Formation stack %s..\n", stackName)
	changeRequestID, err := o.API.DeleteCloudFormationStack(ctx,
		o.Config.AWSAccount, o.Config.AWSRegion, stackName)
	if err != nil {
		return "", err
	}
	return o.finish(ctx, changeRequestID, execute)
}

// ResolveVersion pins the floating "latest" version to the newest concrete
// tag of the container image the template references. A fixed version is
// returned unchanged.
func (o *Orchestrator) ResolveVersion(
	ctx context.Context,
	templatePath string,
	tgt target.Target,
	params map[string]string,
) (string, error) {
	if tgt.Version != "latest" {
		return tgt.Version, nil
	}

	rendered, err := manifest.RenderFile(templatePath, targetContext(tgt, params))
	if err != nil {
		return "", err
	}

	for _, image := range rendered.ContainerImages() {
		if !strings.HasSuffix(image, ":latest") {
			continue
		}

		parsed := registry.ParseImage(image)
		if parsed.Registry == "" {
			return "", &UnresolvedVersionError{
				Reason: fmt.Sprintf("no registry in image reference %s", image),
			}
		}

		tag, err := o.Registry.LatestTag(ctx, parsed)
		if err != nil {
			return "", &UnresolvedVersionError{
				Reason: fmt.Sprintf("cannot query tags of %s: %v", image, err),
			}
		}
		if tag == "" {
			return "", &UnresolvedVersionError{
				Reason: fmt.Sprintf("no tags found for %s", image),
			}
		}
		return tag, nil
	}

	return "", &UnresolvedVersionError{
		Reason: `no container image with the "latest" tag found, choose a fixed version`,
	}
}

// finish either approves and executes the submitted change request right
// away, or prints its ID for a later manual approval
func (o *Orchestrator) finish(
	ctx context.Context,
	changeRequestID string,
	execute bool,
) (string, error) {
	if execute {
		if err := o.API.ApproveAndExecute(ctx, changeRequestID); err != nil {
			return "", err
		}
		return changeRequestID, nil
	}
	fmt.Fprintln(o.Out, changeRequestID)
	return changeRequestID, nil
}

// targetContext merges the target triple into the template parameters
func targetContext(tgt target.Target, params map[string]string) map[string]string {
	merged := make(map[string]string, len(params)+3)
	for key, value := range params {
		merged[key] = value
	}
	merged["application"] = tgt.Application
	merged["version"] = tgt.Version
	merged["release"] = tgt.Release
	return merged
}

// TimeoutError reports a deployment that did not become ready in time
type TimeoutError struct {
	Deployment string
	Timeout    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deployment %s did not become ready within %.0f seconds",
		e.Deployment, e.Timeout.Seconds())
}

// UnresolvedVersionError reports a "latest" version that could not be
// pinned to a concrete image tag
type UnresolvedVersionError struct {
	Reason string
}

func (e *UnresolvedVersionError) Error() string {
	return `could not resolve "latest" version: ` + e.Reason
}
