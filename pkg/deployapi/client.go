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

// Package deployapi implements the client of the deploy API, the service
// every mutation of cluster state goes through. Mutations are submitted as
// change requests which become effective only once approved and executed.
package deployapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shipshift/deploy-cli/pkg/log"
	"github.com/shipshift/deploy-cli/pkg/update"
	"github.com/shipshift/deploy-cli/pkg/versions"
)

const defaultRequestTimeout = 30 * time.Second

// Client is an HTTP client of the deploy API
type Client struct {
	*http.Client

	baseURL string
	token   string
	user    string
}

// New returns a client for the deploy API at baseURL, authenticating with
// the given bearer token. When user is not empty it is sent along as the
// X-On-Behalf-Of header and recorded in approvals.
func New(baseURL, token, user string) *Client {
	return &Client{
		Client:  &http.Client{Timeout: defaultRequestTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		user:    user,
	}
}

// ChangeRequest is one entry of the change request listing
type ChangeRequest struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Kind     string `json:"kind"`
	User     string `json:"user"`
	Executed bool   `json:"executed"`
}

// Approval is one recorded approval of a change request
type Approval struct {
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

// ApplyResource submits a change request creating or updating a Kubernetes
// resource from its rendered manifest, returning the change request ID
func (c *Client) ApplyResource(
	ctx context.Context,
	cluster, namespace string,
	manifest []byte,
) (string, error) {
	path := fmt.Sprintf("/kubernetes-clusters/%s/namespaces/%s/resources",
		cluster, namespace)
	body, err := c.request(ctx, http.MethodPost, path, json.RawMessage(manifest))
	if err != nil {
		return "", err
	}
	return c.changeRequestID(path, body)
}

// PatchResources submits a change request applying a declarative resources
// update, returning the change request ID
func (c *Client) PatchResources(
	ctx context.Context,
	cluster, namespace string,
	resourcesUpdate *update.ResourcesUpdate,
) (string, error) {
	path := fmt.Sprintf("/kubernetes-clusters/%s/namespaces/%s/resources",
		cluster, namespace)
	body, err := c.request(ctx, http.MethodPatch, path, resourcesUpdate)
	if err != nil {
		return "", err
	}
	return c.changeRequestID(path, body)
}

// DeleteResource submits a change request deleting one named Kubernetes
// resource, returning the change request ID
func (c *Client) DeleteResource(
	ctx context.Context,
	cluster, namespace, kind, name string,
) (string, error) {
	path := fmt.Sprintf("/kubernetes-clusters/%s/namespaces/%s/%s/%s",
		cluster, namespace, kind, name)
	body, err := c.request(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return "", err
	}
	return c.changeRequestID(path, body)
}

// ApplyCloudFormationStack submits a change request creating or updating a
// CloudFormation stack, returning the change request ID
func (c *Client) ApplyCloudFormationStack(
	ctx context.Context,
	account, region, stackName string,
	definition []byte,
) (string, error) {
	path := fmt.Sprintf("/aws-accounts/%s/regions/%s/cloudformation-stacks/%s",
		account, region, stackName)
	body, err := c.request(ctx, http.MethodPut, path, json.RawMessage(definition))
	if err != nil {
		return "", err
	}
	return c.changeRequestID(path, body)
}

// DeleteCloudFormationStack submits a change request deleting a
// CloudFormation stack, returning the change request ID
func (c *Client) DeleteCloudFormationStack(
	ctx context.Context,
	account, region, stackName string,
) (string, error) {
	path := fmt.Sprintf("/aws-accounts/%s/regions/%s/cloudformation-stacks/%s",
		account, region, stackName)
	body, err := c.request(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return "", err
	}
	return c.changeRequestID(path, body)
}

// Approve records an approval for the given change request. The configured
// user, if any, is included in the approval payload.
func (c *Client) Approve(ctx context.Context, changeRequestID string) error {
	payload := map[string]string{}
	if c.user != "" {
		payload["user"] = c.user
	}
	path := fmt.Sprintf("/change-requests/%s/approvals", changeRequestID)
	_, err := c.request(ctx, http.MethodPost, path, payload)
	return err
}

// Execute asks the deploy API to carry out an approved change request
func (c *Client) Execute(ctx context.Context, changeRequestID string) error {
	path := fmt.Sprintf("/change-requests/%s/execute", changeRequestID)
	_, err := c.request(ctx, http.MethodPost, path, nil)
	return err
}

// ApproveAndExecute approves a change request and then executes it. The
// execution is never attempted when the approval fails.
func (c *Client) ApproveAndExecute(ctx context.Context, changeRequestID string) error {
	if err := c.Approve(ctx, changeRequestID); err != nil {
		return err
	}
	return c.Execute(ctx, changeRequestID)
}

// ListChangeRequests retrieves the change requests known to the deploy API
func (c *Client) ListChangeRequests(ctx context.Context) ([]ChangeRequest, error) {
	body, err := c.request(ctx, http.MethodGet, "/change-requests", nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []ChangeRequest `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &ProtocolError{
			URL:    c.url("/change-requests"),
			Reason: fmt.Sprintf("cannot decode body: %v", err),
		}
	}
	return response.Items, nil
}

// GetChangeRequest retrieves the full document of one change request
func (c *Client) GetChangeRequest(
	ctx context.Context,
	changeRequestID string,
) (map[string]interface{}, error) {
	path := fmt.Sprintf("/change-requests/%s", changeRequestID)
	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var document map[string]interface{}
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, &ProtocolError{
			URL:    c.url(path),
			Reason: fmt.Sprintf("cannot decode body: %v", err),
		}
	}
	return document, nil
}

// ListApprovals retrieves the approvals recorded for a change request
func (c *Client) ListApprovals(
	ctx context.Context,
	changeRequestID string,
) ([]Approval, error) {
	path := fmt.Sprintf("/change-requests/%s/approvals", changeRequestID)
	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []Approval `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &ProtocolError{
			URL:    c.url(path),
			Reason: fmt.Sprintf("cannot decode body: %v", err),
		}
	}
	return response.Items, nil
}

// EncryptSecret asks the deploy API to encrypt a plain text for use in
// deployment configuration, returning the ciphertext
func (c *Client) EncryptSecret(ctx context.Context, plaintext string) (string, error) {
	payload := map[string]string{"plaintext": plaintext}
	body, err := c.request(ctx, http.MethodPost, "/secrets", payload)
	if err != nil {
		return "", err
	}

	var response struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &ProtocolError{
			URL:    c.url("/secrets"),
			Reason: fmt.Sprintf("cannot decode body: %v", err),
		}
	}
	if response.Data == "" {
		return "", &ProtocolError{
			URL:    c.url("/secrets"),
			Reason: `missing "data" field`,
		}
	}
	return response.Data, nil
}

// changeRequestID extracts the change request ID every submission endpoint
// answers with
func (c *Client) changeRequestID(path string, body []byte) (string, error) {
	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &ProtocolError{
			URL:    c.url(path),
			Reason: fmt.Sprintf("cannot decode body: %v", err),
		}
	}
	if response.ID == "" {
		return "", &ProtocolError{
			URL:    c.url(path),
			Reason: `missing "id" field`,
		}
	}
	return response.ID, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) request(
	ctx context.Context,
	method, path string,
	payload interface{},
) ([]byte, error) {
	contextLogger := log.FromContext(ctx)

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	requestURL := c.url(path)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "deploy-cli/v"+versions.Version)
	if c.user != "" {
		req.Header.Set("X-On-Behalf-Of", c.user)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	contextLogger.Debug("Requesting deploy API", "method", method, "url", requestURL)
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			contextLogger.Error(err, "while closing response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			URL:        requestURL,
		}
	}

	return body, nil
}

// ServerError reports a deploy API response outside the accepted range.
// The protocol aborts right away, nothing is retried.
type ServerError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned HTTP error %d for %s:\n%s",
		e.StatusCode, e.URL, e.Body)
}

// ProtocolError reports a successful response whose payload does not carry
// what the protocol requires
type ProtocolError struct {
	URL    string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.URL, e.Reason)
}
