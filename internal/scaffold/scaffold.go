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

// Package scaffold creates a new deploy folder holding the manifest
// templates the other commands consume.
//
// The scaffolded files keep their deploy time placeholders untouched, so
// the scaffold templates use << >> delimiters for their own variables.
package scaffold

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/shipshift/deploy-cli/pkg/fileutils"
)

// DefaultTemplateID is the template used when init is not told otherwise
const DefaultTemplateID = "webapp"

const (
	// DeploymentFileName is rendered by create-deployment
	DeploymentFileName = "deployment.yaml"

	// ServiceFileName is applied once per application
	ServiceFileName = "service.yaml"

	// IngressFileName exposes the service to the outside
	IngressFileName = "ingress.yaml"

	// AutoscalingFileName is rendered by apply-autoscaling
	AutoscalingFileName = "autoscaling.yaml"

	// NotesFileName is shown once the deploy folder has been created
	NotesFileName = "NOTES.txt"

	deploymentTemplateString = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: {{.application}}-{{.version}}-{{.release}}
  labels:
    application: {{.application}}
    version: {{.version}}
    release: {{.release}}
spec:
  replicas: 1
  selector:
    matchLabels:
      application: {{.application}}
      release: {{.release}}
  template:
    metadata:
      labels:
        application: {{.application}}
        version: {{.version}}
        release: {{.release}}
        stage: testing
    spec:
      containers:
        - name: {{.application}}
          image: {{.image}}
          ports:
            - containerPort: 8080
          resources:
            limits:
              memory: 512Mi
            requests:
              cpu: 100m
              memory: 512Mi
          readinessProbe:
            httpGet:
              path: /health
              port: 8080
`

	serviceTemplateString = `apiVersion: v1
kind: Service
metadata:
  name: {{.application}}
  labels:
    application: {{.application}}
spec:
  selector:
    application: {{.application}}
    release: {{.release}}
  ports:
    - port: 80
      targetPort: 8080
`

	ingressTemplateString = `apiVersion: networking.k8s.io/v1
kind: Ingress
metadata:
  name: {{.application}}
  labels:
    application: {{.application}}
spec:
  rules:
    - host: {{.application}}.<<.Region>>.example.org
      http:
        paths:
          - path: /
            pathType: Prefix
            backend:
              service:
                name: {{.application}}
                port:
                  number: 80
`

	autoscalingTemplateString = `apiVersion: autoscaling/v1
kind: HorizontalPodAutoscaler
metadata:
  name: {{.application}}-{{.version}}-{{.release}}
  labels:
    application: {{.application}}
    version: {{.version}}
    release: {{.release}}
spec:
  scaleTargetRef:
    apiVersion: apps/v1
    kind: Deployment
    name: {{.application}}-{{.version}}-{{.release}}
  minReplicas: 2
  maxReplicas: 6
  targetCPUUtilizationPercentage: 70
`

	notesTemplateString = `Your deploy folder for cluster <<.ClusterID>> is ready.

Roll out a release:

    deploy-cli create-deployment deployment.yaml myapp v1 r1 image=registry.example.org/myapp:v1 --execute
    deploy-cli wait-for-deployment myapp v1 r1
    deploy-cli switch-deployment myapp v1 r1 1/1 --execute
    deploy-cli apply-autoscaling autoscaling.yaml myapp v1 r1 --execute

Expose it:

    deploy-cli apply service.yaml application=myapp release=r1 --execute
    deploy-cli apply ingress.yaml application=myapp --execute

CloudFormation stacks are managed in AWS account <<.AccountID>>, region <<.Region>>.
`
)

var (
	deploymentTemplate = template.Must(
		template.New(DeploymentFileName).Delims("<<", ">>").Parse(deploymentTemplateString))
	serviceTemplate = template.Must(
		template.New(ServiceFileName).Delims("<<", ">>").Parse(serviceTemplateString))
	ingressTemplate = template.Must(
		template.New(IngressFileName).Delims("<<", ">>").Parse(ingressTemplateString))
	autoscalingTemplate = template.Must(
		template.New(AutoscalingFileName).Delims("<<", ">>").Parse(autoscalingTemplateString))
	notesTemplate = template.Must(
		template.New(NotesFileName).Delims("<<", ">>").Parse(notesTemplateString))
)

// The built-in template sets, keyed by template identifier
var templateSets = map[string]map[string]*template.Template{
	DefaultTemplateID: {
		DeploymentFileName:  deploymentTemplate,
		ServiceFileName:     serviceTemplate,
		IngressFileName:     ingressTemplate,
		AutoscalingFileName: autoscalingTemplate,
		NotesFileName:       notesTemplate,
	},
}

// TemplateIDs lists the available scaffold templates
func TemplateIDs() []string {
	ids := make([]string, 0, len(templateSets))
	for id := range templateSets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Variables are interpolated into the scaffolded files
type Variables struct {
	ClusterID string
	AccountID string
	Region    string
}

// VariablesForCluster derives the scaffold variables from a cluster
// identifier of the form provider:account:region:name
func VariablesForCluster(clusterID string) (Variables, error) {
	parts := strings.Split(clusterID, ":")
	if len(parts) != 4 {
		return Variables{}, fmt.Errorf(
			"invalid cluster identifier %q: must have the form provider:account:region:name",
			clusterID)
	}
	return Variables{
		ClusterID: clusterID,
		AccountID: strings.Join(parts[:2], ":"),
		Region:    parts[2],
	}, nil
}

// Files renders the named template set, keyed by file name
func Files(templateID string, vars Variables) (map[string]string, error) {
	templates, ok := templateSets[templateID]
	if !ok {
		return nil, fmt.Errorf("unknown template %q, available templates: %s",
			templateID, strings.Join(TemplateIDs(), ", "))
	}

	files := make(map[string]string, len(templates))
	for name, fileTemplate := range templates {
		var contents bytes.Buffer
		if err := fileTemplate.Execute(&contents, vars); err != nil {
			return nil, fmt.Errorf("while rendering %s: %w", name, err)
		}
		files[name] = contents.String()
	}
	return files, nil
}

// Write materializes the named template set under directory, refusing to
// overwrite anything already there. The notes contents are returned to be
// shown to the user.
func Write(directory, templateID string, vars Variables, out io.Writer) (string, error) {
	files, err := Files(templateID, vars)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(directory, name)
		exists, err := fileutils.FileExists(path)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("target file %q already exists, aborting", path)
		}
	}

	for _, name := range names {
		path := filepath.Join(directory, name)
		fmt.Fprintf(out, "Writing %s..\n", path)
		if _, err := fileutils.WriteStringToFile(path, files[name]); err != nil {
			return "", err
		}
	}

	return files[NotesFileName], nil
}
