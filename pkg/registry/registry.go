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

// Package registry resolves container image tags against a Docker registry
// using its v2 HTTP API
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/blang/semver"
)

// Image is a parsed container image reference
type Image struct {
	Registry   string
	Repository string
	Tag        string
}

// ParseImage splits an image reference into its registry, repository and
// tag. The first path segment counts as a registry only when it looks like
// a host, following the usual reference grammar.
func ParseImage(ref string) Image {
	remainder := ref

	var registry string
	if slash := strings.Index(remainder, "/"); slash >= 0 {
		head := remainder[:slash]
		if strings.ContainsAny(head, ".:") || head == "localhost" {
			registry = head
			remainder = remainder[slash+1:]
		}
	}

	var tag string
	if colon := strings.LastIndex(remainder, ":"); colon >= 0 && !strings.Contains(remainder[colon:], "/") {
		tag = remainder[colon+1:]
		remainder = remainder[:colon]
	}

	return Image{
		Registry:   registry,
		Repository: remainder,
		Tag:        tag,
	}
}

// String renders the reference back in its usual form
func (i Image) String() string {
	ref := i.Repository
	if i.Registry != "" {
		ref = i.Registry + "/" + ref
	}
	if i.Tag != "" {
		ref = ref + ":" + i.Tag
	}
	return ref
}

// tagRequestRetry bounds the attempts against a registry that answers with
// transient errors
const (
	tagRequestAttempts = 3
	tagRequestDelay    = 250 * time.Millisecond
)

// Client queries a Docker registry over its v2 HTTP API
type Client struct {
	*http.Client
	token string
}

// New returns a registry client. The token, when not empty, is presented
// as a bearer credential.
func New(token string) *Client {
	return &Client{
		Client: &http.Client{Timeout: 30 * time.Second},
		token:  token,
	}
}

// An StatusError reports an unsuccessful registry response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("error status code: %v, body: %v", e.StatusCode, e.Body)
}

// ErrMissingRegistry reports an image reference that does not name the
// registry to query
var ErrMissingRegistry = errors.New("image reference does not name a registry")

// Tags lists the tags of the image repository. Transient failures are
// retried a few times with a fixed delay.
func (c *Client) Tags(ctx context.Context, image Image) ([]string, error) {
	if image.Registry == "" {
		return nil, ErrMissingRegistry
	}

	tagsURL := fmt.Sprintf("%s://%s/v2/%s/tags/list",
		schemeFor(image.Registry), image.Registry, image.Repository)

	var tags []string
	err := retry.Do(
		func() error {
			listed, err := c.listTags(ctx, tagsURL)
			if err != nil {
				return err
			}
			tags = listed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(tagRequestAttempts),
		retry.Delay(tagRequestDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
	return tags, err
}

// LatestTag resolves the newest tag of the image repository, or an empty
// string when the repository has no usable tag
func (c *Client) LatestTag(ctx context.Context, image Image) (string, error) {
	tags, err := c.Tags(ctx, image)
	if err != nil {
		return "", err
	}
	return NewestTag(tags), nil
}

// NewestTag picks the newest of a set of tags. Tags parseable as semantic
// versions are compared as such and win over the rest, which fall back to
// lexicographic order. The floating "latest" tag never counts.
func NewestTag(tags []string) string {
	var newestVersion semver.Version
	var newestVersionTag string
	var newestLexical string

	for _, tag := range tags {
		if tag == "latest" {
			continue
		}
		if version, err := semver.ParseTolerant(tag); err == nil {
			if newestVersionTag == "" || version.GT(newestVersion) {
				newestVersion = version
				newestVersionTag = tag
			}
			continue
		}
		if tag > newestLexical {
			newestLexical = tag
		}
	}

	if newestVersionTag != "" {
		return newestVersionTag
	}
	return newestLexical
}

func (c *Client) listTags(ctx context.Context, tagsURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}
	return response.Tags, nil
}

func isRetryable(err error) bool {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Registries answering plain HTTP are only expected on loopback, as used
// by local development setups
func schemeFor(registry string) string {
	host := registry
	if colon := strings.LastIndex(registry, ":"); colon >= 0 {
		host = registry[:colon]
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "http"
	}
	return "https"
}
