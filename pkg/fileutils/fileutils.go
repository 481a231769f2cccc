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

// Package fileutils contains the utility functions about
// file management
package fileutils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists check if a file exists, and return an error otherwise
func FileExists(fileName string) (bool, error) {
	if _, err := os.Stat(fileName); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadFile reads the source file and outputs its content as a string
func ReadFile(fileName string) (string, error) {
	content, err := os.ReadFile(fileName) // #nosec
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// EnsureDirectoryExists creates a directory and its missing parents,
// doing nothing when it is already there
func EnsureDirectoryExists(destinationDir string) error {
	if _, err := os.Stat(destinationDir); os.IsNotExist(err) {
		return os.MkdirAll(destinationDir, 0o700)
	} else if err != nil {
		return err
	}
	return nil
}

// EnsureParentDirectoryExists creates the directory containing a certain
// file, with its missing parents
func EnsureParentDirectoryExists(fileName string) error {
	return EnsureDirectoryExists(filepath.Dir(fileName))
}

// WriteStringToFile replace the contents of a certain file
// with a string. If the file doesn't exist, it's created, together
// with the missing parent directories. Returns an error status and a
// flag telling if the file has been changed or not.
func WriteStringToFile(fileName string, contents string) (changed bool, err error) {
	return WriteFileAtomic(fileName, []byte(contents), 0o600)
}

// WriteFileAtomic atomically replace the content of a file.
// If the file already has the desired content it is left untouched.
// Returns an error status and a flag telling if the file has been
// changed or not.
func WriteFileAtomic(fileName string, contents []byte, perm os.FileMode) (bool, error) {
	exists, err := FileExists(fileName)
	if err != nil {
		return false, err
	}
	if exists {
		previousContents, err := os.ReadFile(fileName) // #nosec
		if err != nil {
			return false, fmt.Errorf("while reading previous file contents: %w", err)
		}
		if bytes.Equal(previousContents, contents) {
			return false, nil
		}
	}

	if err := EnsureParentDirectoryExists(fileName); err != nil {
		return false, err
	}

	fileNameTmp := fileName + ".tmp"
	if err := os.WriteFile(fileNameTmp, contents, perm); err != nil {
		return false, err
	}
	if err := os.Rename(fileNameTmp, fileName); err != nil {
		_ = os.Remove(fileNameTmp)
		return false, err
	}

	return true, nil
}
