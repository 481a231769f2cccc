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

package auth

import (
	"os"

	"github.com/zalando/go-keyring"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Token resolution", func() {
	BeforeEach(func() {
		keyring.MockInit()
		Expect(os.Unsetenv(TokenEnv)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Unsetenv(TokenEnv)).To(Succeed())
	})

	It("prefers the environment over the keyring", func() {
		Expect(StoreToken("from-keyring")).To(Succeed())
		Expect(os.Setenv(TokenEnv, "from-env")).To(Succeed())

		token, err := GetToken()
		Expect(err).ToNot(HaveOccurred())
		Expect(token).To(Equal("from-env"))
	})

	It("falls back to the stored keyring credential", func() {
		Expect(StoreToken("from-keyring")).To(Succeed())

		token, err := GetToken()
		Expect(err).ToNot(HaveOccurred())
		Expect(token).To(Equal("from-keyring"))
	})

	It("fails with guidance when no token is available", func() {
		_, err := GetToken()
		Expect(err).To(MatchError(ErrNoToken))
		Expect(err).To(MatchError(ContainSubstring(TokenEnv)))
	})

	It("deletes a stored credential only once", func() {
		Expect(StoreToken("from-keyring")).To(Succeed())
		Expect(DeleteToken()).To(Succeed())
		Expect(DeleteToken()).To(Succeed())

		_, err := GetToken()
		Expect(err).To(MatchError(ErrNoToken))
	})
})
