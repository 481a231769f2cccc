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

package manifest

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const deploymentTemplate = `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: {{.application}}-{{.version}}-{{.release}}
spec:
  replicas: 1
  template:
    spec:
      containers:
        - name: {{.application}}
          image: registry.example.org/stups/{{.application}}:{{.version}}
`

var _ = Describe("Parameter parsing", func() {
	It("splits on the first separator only", func() {
		context, err := ParseParams([]string{"image=registry:5000/app", "stage=live"})
		Expect(err).ToNot(HaveOccurred())
		Expect(context).To(Equal(map[string]string{
			"image": "registry:5000/app",
			"stage": "live",
		}))
	})

	It("rejects arguments without a separator", func() {
		_, err := ParseParams([]string{"novalue"})
		Expect(err).To(MatchError(ContainSubstring("must be KEY=VALUE")))
	})
})

var _ = Describe("Template rendering", func() {
	It("interpolates the context into the document", func() {
		m, err := Render(deploymentTemplate, map[string]string{
			"application": "myapp",
			"version":     "v2",
			"release":     "r42",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(m.IsKubernetes()).To(BeTrue())
		Expect(m.IsCloudFormation()).To(BeFalse())
		Expect(m.ContainerImages()).To(
			Equal([]string{"registry.example.org/stups/myapp:v2"}))
	})

	It("fails on placeholders missing from the context", func() {
		_, err := Render(deploymentTemplate, map[string]string{
			"application": "myapp",
		})
		Expect(err).To(HaveOccurred())
	})

	It("rejects rendered output that is not a document", func() {
		_, err := Render("just a scalar", nil)
		Expect(err).To(HaveOccurred())
	})

	It("round-trips through JSON for submission", func() {
		m, err := Render("kind: Service\nmetadata:\n  name: myapp\n", nil)
		Expect(err).ToNot(HaveOccurred())

		body, err := m.JSON()
		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(MatchJSON(`{"kind": "Service", "metadata": {"name": "myapp"}}`))
	})
})

var _ = Describe("CloudFormation templates", func() {
	It("detects the template and extracts the stack name", func() {
		m, err := Render(`
Metadata:
  StackName: myapp-infra
Resources:
  Bucket:
    Type: AWS::S3::Bucket
`, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(m.IsCloudFormation()).To(BeTrue())
		Expect(m.IsKubernetes()).To(BeFalse())

		name, err := m.StackName()
		Expect(err).ToNot(HaveOccurred())
		Expect(name).To(Equal("myapp-infra"))
	})

	It("requires the stack name to be declared", func() {
		m, err := Render("Resources:\n  Bucket:\n    Type: AWS::S3::Bucket\n", nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = m.StackName()
		Expect(err).To(MatchError(ContainSubstring("Metadata/StackName")))
	})
})

var _ = Describe("Template path expansion", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "manifest-")
		Expect(err).ToNot(HaveOccurred())

		for _, name := range []string{"deployment.yaml", "service.yaml", ".hidden.yaml", "notes.txt"} {
			Expect(os.WriteFile(filepath.Join(tempDir, name), []byte("kind: Test\n"), 0o600)).
				To(Succeed())
		}
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	It("lists the visible YAML files of a directory", func() {
		paths, err := TemplatePaths(tempDir)
		Expect(err).ToNot(HaveOccurred())
		Expect(paths).To(Equal([]string{
			filepath.Join(tempDir, "deployment.yaml"),
			filepath.Join(tempDir, "service.yaml"),
		}))
	})

	It("passes a single file through", func() {
		single := filepath.Join(tempDir, "deployment.yaml")
		paths, err := TemplatePaths(single)
		Expect(err).ToNot(HaveOccurred())
		Expect(paths).To(Equal([]string{single}))
	})
})
