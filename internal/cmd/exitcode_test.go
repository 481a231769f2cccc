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

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shipshift/deploy-cli/internal/deploy"
	"github.com/shipshift/deploy-cli/pkg/deployapi"
	"github.com/shipshift/deploy-cli/pkg/target"
	"github.com/shipshift/deploy-cli/pkg/traffic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Exit code mapping", func() {
	It("returns zero on success", func() {
		Expect(ExitCode(nil)).To(Equal(0))
	})

	It("signals operational failures with one", func() {
		Expect(ExitCode(&target.NotFoundError{Name: "myapp-v2-r42"})).To(Equal(1))
		Expect(ExitCode(&deploy.TimeoutError{
			Deployment: "myapp-v2-r42",
			Timeout:    300 * time.Second,
		})).To(Equal(1))
		Expect(ExitCode(errors.New("connection refused"))).To(Equal(1))
	})

	It("signals malformed input with two", func() {
		Expect(ExitCode(&target.ValidationError{
			Argument: "application",
			Value:    "MyApp",
		})).To(Equal(2))
		Expect(ExitCode(&traffic.InvalidRatioError{
			Value:  "3/2",
			Reason: "target replicas cannot exceed the total",
		})).To(Equal(2))
	})

	It("signals deploy API refusals with two", func() {
		Expect(ExitCode(&deployapi.ServerError{StatusCode: 418, Body: "teapot"})).
			To(Equal(2))
		Expect(ExitCode(&deployapi.ProtocolError{
			URL:    "https://deploy.example.org/change-requests",
			Reason: `missing "id" field`,
		})).To(Equal(2))
	})

	It("signals unresolved latest versions with two", func() {
		Expect(ExitCode(&deploy.UnresolvedVersionError{Reason: "no tags found"})).
			To(Equal(2))
	})

	It("sees through error wrapping", func() {
		wrapped := fmt.Errorf("while submitting: %w",
			&deployapi.ServerError{StatusCode: 503, Body: "unavailable"})
		Expect(ExitCode(wrapped)).To(Equal(2))
	})
})
