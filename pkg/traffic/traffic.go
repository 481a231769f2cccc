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

// Package traffic plans how replicas are distributed across the deployments
// of an application when traffic is moved to one of them
package traffic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shipshift/deploy-cli/pkg/target"
)

// Ratio expresses the desired traffic share as targetReplicas/totalReplicas
type Ratio struct {
	TargetReplicas int32
	TotalReplicas  int32
}

// String renders the ratio back in its command line form
func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.TargetReplicas, r.TotalReplicas)
}

// ParseRatio interprets a command line ratio argument of the form
// target/total
func ParseRatio(value string) (Ratio, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return Ratio{}, &InvalidRatioError{
			Value:  value,
			Reason: "must have the form target/total",
		}
	}

	targetReplicas, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return Ratio{}, &InvalidRatioError{
			Value:  value,
			Reason: "target replicas must be an integer",
		}
	}

	totalReplicas, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return Ratio{}, &InvalidRatioError{
			Value:  value,
			Reason: "total replicas must be an integer",
		}
	}

	if targetReplicas < 0 || totalReplicas < 0 {
		return Ratio{}, &InvalidRatioError{
			Value:  value,
			Reason: "replica counts cannot be negative",
		}
	}

	if targetReplicas > totalReplicas {
		return Ratio{}, &InvalidRatioError{
			Value:  value,
			Reason: "target replicas cannot exceed the total",
		}
	}

	return Ratio{
		TargetReplicas: int32(targetReplicas),
		TotalReplicas:  int32(totalReplicas),
	}, nil
}

// Assignment pairs a deployment name with the replica count it is scaled to
type Assignment struct {
	Name     string
	Replicas int32
}

// Split computes the replica assignment that moves the requested traffic
// share to the target deployment.
//
// The deployment names are visited in descending lexicographic order. The
// target receives the requested replicas, the first deployment after it
// absorbs everything that remains of the total, and every further
// deployment is scaled to zero. One assignment is emitted per deployment,
// whatever it is currently scaled to.
func Split(names []string, targetName string, ratio Ratio) ([]Assignment, error) {
	found := false
	for _, name := range names {
		if name == targetName {
			found = true
			break
		}
	}
	if !found {
		return nil, &target.NotFoundError{Name: targetName}
	}

	sorted := append([]string(nil), names...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	remaining := ratio.TotalReplicas - ratio.TargetReplicas
	assignments := make([]Assignment, 0, len(sorted))
	for _, name := range sorted {
		var replicas int32
		if name == targetName {
			replicas = ratio.TargetReplicas
		} else {
			replicas = remaining
			remaining = 0
		}
		assignments = append(assignments, Assignment{Name: name, Replicas: replicas})
	}

	return assignments, nil
}

// InvalidRatioError reports a ratio argument that cannot be interpreted
type InvalidRatioError struct {
	Value  string
	Reason string
}

func (e *InvalidRatioError) Error() string {
	return fmt.Sprintf("invalid ratio %q: %s", e.Value, e.Reason)
}
