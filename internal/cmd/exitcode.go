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

	"github.com/shipshift/deploy-cli/internal/deploy"
	"github.com/shipshift/deploy-cli/pkg/deployapi"
	"github.com/shipshift/deploy-cli/pkg/target"
	"github.com/shipshift/deploy-cli/pkg/traffic"
)

// ExitCode translates the error of a command into the exit status of the
// process. Malformed input and definitive refusals of the deploy API exit
// with 2, operational failures such as a missing deployment or an elapsed
// readiness timeout exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var validationError *target.ValidationError
	var ratioError *traffic.InvalidRatioError
	var serverError *deployapi.ServerError
	var protocolError *deployapi.ProtocolError
	var unresolvedError *deploy.UnresolvedVersionError

	switch {
	case errors.As(err, &validationError),
		errors.As(err, &ratioError),
		errors.As(err, &serverError),
		errors.As(err, &protocolError),
		errors.As(err, &unresolvedError):
		return 2
	}

	return 1
}
