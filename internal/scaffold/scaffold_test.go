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

package scaffold

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/shipshift/deploy-cli/pkg/manifest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cluster variables", func() {
	It("derives account and region from the cluster identifier", func() {
		vars, err := VariablesForCluster("aws:123456789012:eu-central-1:demo")
		Expect(err).ToNot(HaveOccurred())
		Expect(vars).To(Equal(Variables{
			ClusterID: "aws:123456789012:eu-central-1:demo",
			AccountID: "aws:123456789012",
			Region:    "eu-central-1",
		}))
	})

	It("rejects malformed identifiers", func() {
		_, err := VariablesForCluster("demo")
		Expect(err).To(MatchError(ContainSubstring("provider:account:region:name")))
	})
})

var _ = Describe("Scaffolded files", func() {
	vars := Variables{
		ClusterID: "aws:123456789012:eu-central-1:demo",
		AccountID: "aws:123456789012",
		Region:    "eu-central-1",
	}

	It("keeps the deploy time placeholders untouched", func() {
		files, err := Files(DefaultTemplateID, vars)
		Expect(err).ToNot(HaveOccurred())
		Expect(files[DeploymentFileName]).To(ContainSubstring(
			"name: {{.application}}-{{.version}}-{{.release}}"))
		Expect(files[DeploymentFileName]).To(ContainSubstring("image: {{.image}}"))
	})

	It("interpolates the cluster into the notes", func() {
		files, err := Files(DefaultTemplateID, vars)
		Expect(err).ToNot(HaveOccurred())
		Expect(files[NotesFileName]).To(ContainSubstring("aws:123456789012:eu-central-1:demo"))
		Expect(files[NotesFileName]).To(ContainSubstring("region eu-central-1"))
		Expect(files[NotesFileName]).ToNot(ContainSubstring("<<"))
	})

	It("renders templates the deploy commands can consume", func() {
		files, err := Files(DefaultTemplateID, vars)
		Expect(err).ToNot(HaveOccurred())

		rendered, err := manifest.Render(files[DeploymentFileName], map[string]string{
			"application": "myapp",
			"version":     "v1",
			"release":     "r1",
			"image":       "registry.example.org/myapp:v1",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(rendered.IsKubernetes()).To(BeTrue())
		Expect(rendered.ContainerImages()).To(Equal([]string{"registry.example.org/myapp:v1"}))
	})

	It("bakes the cluster region into the ingress host", func() {
		files, err := Files(DefaultTemplateID, vars)
		Expect(err).ToNot(HaveOccurred())
		Expect(files[IngressFileName]).To(ContainSubstring(
			"host: {{.application}}.eu-central-1.example.org"))
	})

	It("rejects an unknown template identifier", func() {
		_, err := Files("no-such-template", vars)
		Expect(err).To(MatchError(ContainSubstring("available templates: webapp")))
	})
})

var _ = Describe("Writing the deploy folder", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "scaffold-")
		Expect(err).ToNot(HaveOccurred())
		DeferCleanup(func() {
			Expect(os.RemoveAll(tempDir)).To(Succeed())
		})
	})

	It("creates the full template set", func() {
		vars, err := VariablesForCluster("aws:123456789012:eu-central-1:demo")
		Expect(err).ToNot(HaveOccurred())

		out := &bytes.Buffer{}
		notes, err := Write(tempDir, DefaultTemplateID, vars, out)
		Expect(err).ToNot(HaveOccurred())
		Expect(notes).To(ContainSubstring("deploy folder"))
		Expect(out.String()).To(ContainSubstring("Writing"))

		for _, name := range []string{
			DeploymentFileName, ServiceFileName, IngressFileName, AutoscalingFileName, NotesFileName,
		} {
			Expect(filepath.Join(tempDir, name)).To(BeAnExistingFile())
		}
	})

	It("refuses to overwrite existing files", func() {
		Expect(os.WriteFile(filepath.Join(tempDir, ServiceFileName), []byte("keep me"), 0o600)).
			To(Succeed())

		vars, err := VariablesForCluster("aws:123456789012:eu-central-1:demo")
		Expect(err).ToNot(HaveOccurred())

		_, err = Write(tempDir, DefaultTemplateID, vars, &bytes.Buffer{})
		Expect(err).To(MatchError(ContainSubstring("already exists")))

		contents, err := os.ReadFile(filepath.Join(tempDir, ServiceFileName))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(contents)).To(Equal("keep me"))

		Expect(filepath.Join(tempDir, DeploymentFileName)).ToNot(BeAnExistingFile())
	})
})
