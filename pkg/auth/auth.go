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

// Package auth resolves the bearer token presented to the deploy API
package auth

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"
)

// TokenEnv is the environment variable consulted first when resolving the
// deploy API token
const TokenEnv = "DEPLOY_CLI_TOKEN"

const (
	keyringService = "deploy-cli"
	keyringUser    = "token"
)

// ErrNoToken is returned when neither the environment nor the system
// keyring holds a deploy API token
var ErrNoToken = errors.New(
	"no deploy API token found: set " + TokenEnv +
		" or store one with 'deploy-cli configure --token'")

// GetToken resolves the bearer token used against the deploy API. The
// environment wins over the system keyring, so one-off tokens can be
// injected without touching the stored credential.
func GetToken() (string, error) {
	if token := os.Getenv(TokenEnv); token != "" {
		return token, nil
	}

	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// StoreToken saves the deploy API token in the system keyring
func StoreToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

// DeleteToken removes the deploy API token from the system keyring
func DeleteToken() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
