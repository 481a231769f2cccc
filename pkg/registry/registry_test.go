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

package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Image reference parsing", func() {
	It("splits registry, repository and tag", func() {
		image := ParseImage("registry.example.org/stups/myapp:v2")
		Expect(image).To(Equal(Image{
			Registry:   "registry.example.org",
			Repository: "stups/myapp",
			Tag:        "v2",
		}))
		Expect(image.String()).To(Equal("registry.example.org/stups/myapp:v2"))
	})

	It("leaves the registry empty for bare references", func() {
		image := ParseImage("stups/myapp:latest")
		Expect(image.Registry).To(BeEmpty())
		Expect(image.Repository).To(Equal("stups/myapp"))
		Expect(image.Tag).To(Equal("latest"))
	})

	It("does not mistake a registry port for a tag", func() {
		image := ParseImage("localhost:5000/myapp")
		Expect(image.Registry).To(Equal("localhost:5000"))
		Expect(image.Repository).To(Equal("myapp"))
		Expect(image.Tag).To(BeEmpty())
	})
})

var _ = Describe("Newest tag selection", func() {
	It("orders semantic versions numerically", func() {
		Expect(NewestTag([]string{"1.9.0", "1.10.0", "1.2.3"})).To(Equal("1.10.0"))
	})

	It("tolerates partial versions", func() {
		Expect(NewestTag([]string{"1.9", "1.10", "2"})).To(Equal("2"))
	})

	It("prefers semantic versions over opaque tags", func() {
		Expect(NewestTag([]string{"cd123abc", "1.0.0"})).To(Equal("1.0.0"))
	})

	It("falls back to lexicographic order for opaque tags", func() {
		Expect(NewestTag([]string{"build-20260101", "build-20260820"})).
			To(Equal("build-20260820"))
	})

	It("never resolves to the floating latest tag", func() {
		Expect(NewestTag([]string{"latest", "1.0.0"})).To(Equal("1.0.0"))
		Expect(NewestTag([]string{"latest"})).To(BeEmpty())
	})

	It("resolves nothing from an empty repository", func() {
		Expect(NewestTag(nil)).To(BeEmpty())
	})
})

var _ = Describe("Registry tag listing", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		requests atomic.Int32
		ctx      context.Context
	)

	BeforeEach(func() {
		requests.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			handler(w, r)
		}))
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	registryHost := func() string {
		return strings.TrimPrefix(server.URL, "http://")
	}

	It("lists the repository tags with a bearer token", func() {
		var authorization string
		handler = func(w http.ResponseWriter, r *http.Request) {
			authorization = r.Header.Get("Authorization")
			Expect(r.URL.Path).To(Equal("/v2/stups/myapp/tags/list"))
			_, _ = w.Write([]byte(`{"name": "stups/myapp", "tags": ["1.0.0", "1.1.0"]}`))
		}

		client := New("registry-token")
		tags, err := client.Tags(ctx, Image{
			Registry:   registryHost(),
			Repository: "stups/myapp",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(tags).To(Equal([]string{"1.0.0", "1.1.0"}))
		Expect(authorization).To(Equal("Bearer registry-token"))
	})

	It("resolves the newest tag of the repository", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"tags": ["1.0.0", "1.2.0", "1.1.0", "latest"]}`))
		}

		client := New("")
		tag, err := client.LatestTag(ctx, Image{
			Registry:   registryHost(),
			Repository: "myapp",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(tag).To(Equal("1.2.0"))
	})

	It("retries transient server errors", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			if requests.Load() == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"tags": ["1.0.0"]}`))
		}

		client := New("")
		tags, err := client.Tags(ctx, Image{
			Registry:   registryHost(),
			Repository: "myapp",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(tags).To(Equal([]string{"1.0.0"}))
		Expect(requests.Load()).To(BeEquivalentTo(2))
	})

	It("does not retry a missing repository", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}

		client := New("")
		_, err := client.Tags(ctx, Image{
			Registry:   registryHost(),
			Repository: "absent",
		})
		Expect(err).To(HaveOccurred())
		Expect(requests.Load()).To(BeEquivalentTo(1))
	})

	It("refuses a reference without a registry", func() {
		client := New("")
		_, err := client.Tags(ctx, Image{Repository: "myapp"})
		Expect(err).To(MatchError(ErrMissingRegistry))
		Expect(requests.Load()).To(BeZero())
	})
})
