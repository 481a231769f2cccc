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

package update

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resources update document", func() {
	It("serializes a replica change in the deploy API wire format", func() {
		ru := New()
		ru.SetNumberOfReplicas("myapp-v2-r42", DeploymentsKind, 3)

		body, err := json.Marshal(ru)
		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(MatchJSON(`{
			"resources_update": [
				{
					"name": "myapp-v2-r42",
					"kind": "deployments",
					"operations": [
						{"op": "replace", "path": "/spec/replicas", "value": 3}
					]
				}
			]
		}`))
	})

	It("serializes a label change addressing the pod template", func() {
		ru := New()
		ru.SetLabel("myapp-v2-r42", DeploymentsKind, "stage", "production")

		body, err := json.Marshal(ru)
		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(MatchJSON(`{
			"resources_update": [
				{
					"name": "myapp-v2-r42",
					"kind": "deployments",
					"operations": [
						{
							"op": "replace",
							"path": "/spec/template/metadata/labels/stage",
							"value": "production"
						}
					]
				}
			]
		}`))
	})

	It("keeps one entry per touched resource, in call order", func() {
		ru := New()
		ru.SetNumberOfReplicas("myapp-v2-r42", DeploymentsKind, 1)
		ru.SetNumberOfReplicas("myapp-v2-r41", DeploymentsKind, 0)
		ru.SetLabel("myapp-v2-r42", DeploymentsKind, "stage", "production")

		Expect(ru.ResourcesUpdate).To(HaveLen(3))
		Expect(ru.ResourcesUpdate[0].Name).To(Equal("myapp-v2-r42"))
		Expect(ru.ResourcesUpdate[1].Name).To(Equal("myapp-v2-r41"))
		Expect(ru.ResourcesUpdate[2].Operations[0].Path).To(
			Equal("/spec/template/metadata/labels/stage"))
	})

	It("starts out empty", func() {
		ru := New()
		Expect(ru.IsEmpty()).To(BeTrue())

		ru.SetNumberOfReplicas("myapp-v2-r42", DeploymentsKind, 1)
		Expect(ru.IsEmpty()).To(BeFalse())
	})

	It("emits operations a JSON patch processor accepts", func() {
		ru := New()
		ru.SetNumberOfReplicas("myapp-v2-r42", DeploymentsKind, 5)
		ru.SetLabel("myapp-v2-r42", DeploymentsKind, "stage", "production")

		document := []byte(`{
			"spec": {
				"replicas": 1,
				"template": {
					"metadata": {
						"labels": {"application": "myapp", "stage": "testing"}
					}
				}
			}
		}`)

		for _, resource := range ru.ResourcesUpdate {
			ops, err := json.Marshal(resource.Operations)
			Expect(err).ToNot(HaveOccurred())

			patch, err := jsonpatch.DecodePatch(ops)
			Expect(err).ToNot(HaveOccurred())

			document, err = patch.Apply(document)
			Expect(err).ToNot(HaveOccurred())
		}

		Expect(document).To(MatchJSON(`{
			"spec": {
				"replicas": 5,
				"template": {
					"metadata": {
						"labels": {"application": "myapp", "stage": "production"}
					}
				}
			}
		}`))
	})
})
