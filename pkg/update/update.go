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

// Package update builds the declarative resource update documents accepted
// by the deploy API. Every mutation of a live resource travels as a set of
// JSON patch replace operations grouped by resource.
package update

// DeploymentsKind is the resource kind used for Kubernetes deployments
const DeploymentsKind = "deployments"

// Operation is a single JSON patch operation applied to a resource
type Operation struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// ResourceUpdate groups the operations applied to one named resource
type ResourceUpdate struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	Operations []Operation `json:"operations"`
}

// ResourcesUpdate is the document submitted to the deploy API as the body
// of a PATCH change request
type ResourcesUpdate struct {
	ResourcesUpdate []ResourceUpdate `json:"resources_update"`
}

// New creates an empty update document
func New() *ResourcesUpdate {
	return &ResourcesUpdate{
		ResourcesUpdate: []ResourceUpdate{},
	}
}

// SetNumberOfReplicas appends a replace of /spec/replicas on the named
// resource
func (r *ResourcesUpdate) SetNumberOfReplicas(name, kind string, replicas int32) {
	r.append(name, kind, Operation{
		Op:    "replace",
		Path:  "/spec/replicas",
		Value: replicas,
	})
}

// SetLabel appends a replace of a pod template label on the named resource.
// The label key is inserted in the patch path verbatim, as the deploy API
// expects it.
func (r *ResourcesUpdate) SetLabel(name, kind, key, value string) {
	r.append(name, kind, Operation{
		Op:    "replace",
		Path:  "/spec/template/metadata/labels/" + key,
		Value: value,
	})
}

// IsEmpty tells whether the document carries no operation at all
func (r *ResourcesUpdate) IsEmpty() bool {
	return len(r.ResourcesUpdate) == 0
}

func (r *ResourcesUpdate) append(name, kind string, ops ...Operation) {
	r.ResourcesUpdate = append(r.ResourcesUpdate, ResourceUpdate{
		Name:       name,
		Kind:       kind,
		Operations: ops,
	})
}
