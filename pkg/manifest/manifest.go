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

// Package manifest renders YAML templates into the documents submitted to
// the deploy API, and inspects them to tell Kubernetes manifests apart
// from CloudFormation templates
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"sigs.k8s.io/yaml"

	"github.com/shipshift/deploy-cli/pkg/fileutils"
)

// ParseParams turns key=value command line arguments into the template
// context. The value may itself contain the separator, only the first one
// splits.
func ParseParams(args []string) (map[string]string, error) {
	context := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: must be KEY=VALUE", arg)
		}
		context[key] = value
	}
	return context, nil
}

// Manifest is a rendered template, parsed into its document form
type Manifest struct {
	doc map[string]interface{}
}

// Render interpolates the template contents with the given context and
// parses the result. Placeholders referencing keys absent from the context
// make the rendering fail rather than silently producing empty values.
func Render(contents string, context map[string]string) (Manifest, error) {
	parsed, err := template.New("manifest").
		Option("missingkey=error").
		Parse(contents)
	if err != nil {
		return Manifest{}, fmt.Errorf("while parsing template: %w", err)
	}

	var rendered bytes.Buffer
	if err := parsed.Execute(&rendered, context); err != nil {
		return Manifest{}, fmt.Errorf("while rendering template: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(rendered.Bytes(), &doc); err != nil {
		return Manifest{}, fmt.Errorf("while parsing rendered YAML: %w", err)
	}
	if len(doc) == 0 {
		return Manifest{}, errors.New("invalid YAML contents: not a document")
	}

	return Manifest{doc: doc}, nil
}

// RenderFile renders the template stored at path
func RenderFile(path string, context map[string]string) (Manifest, error) {
	contents, err := fileutils.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	manifest, err := Render(contents, context)
	if err != nil {
		return Manifest{}, fmt.Errorf("in %s: %w", path, err)
	}
	return manifest, nil
}

// TemplatePaths expands a template argument into the list of template
// files it covers. A directory contributes every non-hidden .yaml file it
// directly contains, a file stands for itself.
func TemplatePaths(pathOrDirectory string) ([]string, error) {
	info, err := os.Stat(pathOrDirectory)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{pathOrDirectory}, nil
	}

	entries, err := os.ReadDir(pathOrDirectory)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") && !strings.HasPrefix(name, ".") {
			paths = append(paths, filepath.Join(pathOrDirectory, name))
		}
	}
	return paths, nil
}

// IsKubernetes tells whether the document is a Kubernetes manifest
func (m Manifest) IsKubernetes() bool {
	_, found := m.doc["kind"]
	return found
}

// IsCloudFormation tells whether the document is a CloudFormation template
func (m Manifest) IsCloudFormation() bool {
	_, found := m.doc["Resources"]
	return found
}

// StackName extracts the stack name a CloudFormation template must declare
// in its Metadata section
func (m Manifest) StackName() (string, error) {
	metadata, _ := m.doc["Metadata"].(map[string]interface{})
	name, _ := metadata["StackName"].(string)
	if name == "" {
		return "", errors.New("CloudFormation template requires a Metadata/StackName property")
	}
	return name, nil
}

// ContainerImages lists the images referenced by the pod template of a
// deployment manifest, in declaration order
func (m Manifest) ContainerImages() []string {
	spec, _ := m.doc["spec"].(map[string]interface{})
	podTemplate, _ := spec["template"].(map[string]interface{})
	podSpec, _ := podTemplate["spec"].(map[string]interface{})
	containers, _ := podSpec["containers"].([]interface{})

	var images []string
	for _, container := range containers {
		fields, _ := container.(map[string]interface{})
		if image, _ := fields["image"].(string); image != "" {
			images = append(images, image)
		}
	}
	return images
}

// JSON serializes the document in the form the deploy API accepts
func (m Manifest) JSON() ([]byte, error) {
	return json.Marshal(m.doc)
}

// YAML serializes the document back to YAML for display
func (m Manifest) YAML() ([]byte, error) {
	return yaml.Marshal(m.doc)
}
