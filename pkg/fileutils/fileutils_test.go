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

package fileutils

import (
	"os"
	"path"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("File writing functions", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "fileutils_")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	It("writes a new file", func() {
		changed, err := WriteStringToFile(path.Join(tempDir, "test.txt"), "this is a test")
		Expect(changed).To(BeTrue())
		Expect(err).ToNot(HaveOccurred())

		content, err := ReadFile(path.Join(tempDir, "test.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(content).To(Equal("this is a test"))
	})

	It("detects if the file has changed or not", func() {
		changed, err := WriteStringToFile(path.Join(tempDir, "test2.txt"), "this is a test")
		Expect(changed).To(BeTrue())
		Expect(err).ToNot(HaveOccurred())

		changed2, err := WriteStringToFile(path.Join(tempDir, "test2.txt"), "this is a test")
		Expect(changed2).To(BeFalse())
		Expect(err).ToNot(HaveOccurred())
	})

	It("creates a new directory if needed", func() {
		changed, err := WriteStringToFile(path.Join(tempDir, "test", "test3.txt"), "this is a test")
		Expect(changed).To(BeTrue())
		Expect(err).ToNot(HaveOccurred())
	})
})

var _ = Describe("FileExists", func() {
	It("tells existing files from missing ones", func() {
		tempDir, err := os.MkdirTemp("", "fileutils_")
		Expect(err).ToNot(HaveOccurred())
		defer func() {
			Expect(os.RemoveAll(tempDir)).To(Succeed())
		}()

		name := path.Join(tempDir, "probe.txt")
		exists, err := FileExists(name)
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())

		_, err = WriteStringToFile(name, "x")
		Expect(err).ToNot(HaveOccurred())

		exists, err = FileExists(name)
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeTrue())
	})
})
