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

// Package target contains the identifier triple of a versioned deployment
// and the validation rules applied to it before any network call
package target

import (
	"fmt"
	"regexp"
)

// The deployment name is built as application-version-release and is used
// as a Kubernetes resource name, so every component must conform to the
// DNS subdomain rules.
var (
	applicationPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	versionPattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)
)

// Target identifies the versioned workload a switch, scale, wait or
// delete operation is acting on
type Target struct {
	Application string
	Version     string
	Release     string
}

// New builds a Target, validating every identifier
func New(application, version, release string) (Target, error) {
	t := Target{
		Application: application,
		Version:     version,
		Release:     release,
	}
	return t, t.Validate()
}

// DeploymentName derives the Kubernetes resource name of the target
func (t Target) DeploymentName() string {
	return fmt.Sprintf("%s-%s-%s", t.Application, t.Version, t.Release)
}

// Labels returns the label set selecting the pods belonging to the target
func (t Target) Labels() map[string]string {
	return map[string]string{
		"application": t.Application,
		"version":     t.Version,
		"release":     t.Release,
	}
}

// Validate checks every identifier of the target against its pattern
func (t Target) Validate() error {
	if err := ValidateApplication(t.Application); err != nil {
		return err
	}
	if err := ValidateVersion(t.Version); err != nil {
		return err
	}
	return ValidateRelease(t.Release)
}

// ApplicationLabels returns the label set selecting every deployment of
// an application, whatever its version and release
func ApplicationLabels(application string) map[string]string {
	return map[string]string{
		"application": application,
	}
}

// ValidateApplication checks an application identifier
func ValidateApplication(value string) error {
	return validatePattern("application", value, applicationPattern)
}

// ValidateVersion checks a version identifier
func ValidateVersion(value string) error {
	return validatePattern("version", value, versionPattern)
}

// ValidateRelease checks a release identifier
func ValidateRelease(value string) error {
	return validatePattern("release", value, versionPattern)
}

func validatePattern(argument, value string, pattern *regexp.Regexp) error {
	if !pattern.MatchString(value) {
		return &ValidationError{
			Argument: argument,
			Value:    value,
			Pattern:  pattern.String(),
		}
	}
	return nil
}

// ValidationError reports an identifier not conforming to its pattern.
// It is raised before any network call is issued.
type ValidationError struct {
	Argument string
	Value    string
	Pattern  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: does not match regular expression pattern %q",
		e.Argument, e.Value, e.Pattern)
}

// NotFoundError reports a target deployment missing from the set of
// deployments queried from the cluster
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("deployment %s does not exist", e.Name)
}
