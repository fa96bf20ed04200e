/*
 *   Copyright 2022 Martin Proffitt <mproffitt@choclab.net>
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */
package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/twpayne/go-pinentry"

	"github.com/notapipeline/sealer/pkg/types"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled")

// ReadPassword reads a password from the user via STDIN
func ReadPassword(prompt string) ([]byte, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()
	var (
		password string
		err      error
	)
	if password, err = line.PasswordPrompt(prompt); err != nil {
		if err == liner.ErrPromptAborted {
			return nil, ErrCancelled
		}
		return nil, err
	}
	return []byte(password), nil
}

// ReadLine reads a line of text from the user via STDIN
func ReadLine(prompt string) ([]byte, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()
	var (
		text string
		err  error
	)
	if text, err = line.Prompt(prompt); err != nil {
		if err == liner.ErrPromptAborted {
			return nil, ErrCancelled
		}
		return nil, err
	}
	return []byte(text), nil
}

// These lookups are referenced as variables so tests can replace them
var (
	fromKWallet        func(what string) (string, error) = getSecretFromKWallet
	fromSecretsService func(what string) (string, error) = getSecretFromSecretsService
)

// lookupSecret gets a secret from the environment or secrets store
func lookupSecret(what string) string {
	var (
		value string
		err   error
		ok    bool
	)

	if value, ok = os.LookupEnv(what); ok && value != "" {
		return value
	}

	if value, err = fromKWallet(what); err == nil && value != "" {
		return value
	}

	if value, err = fromSecretsService(what); err == nil && value != "" {
		return value
	}
	return ""
}

// GetSecret finds the sealing secret stored under name.
//
// Order is:
// 1. Environment
// 2. KWallet
// 3. Secret Service
// 4. User input, when interactive is set
//
// Failing all of those the error wraps types.ErrConfig.
func GetSecret(name string, interactive bool) ([]byte, error) {
	if s := lookupSecret(name); s != "" {
		return []byte(s), nil
	}
	if !interactive {
		return nil, fmt.Errorf("%w: no secret found in $%s or the secrets store", types.ErrConfig, name)
	}

	secret, err := GetPassword("sealer", "Please enter the secret key", "Secret: ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfig, err)
	}
	return secret, nil
}

// GetPassword gets a password from the user
//
// This is a mockable entry point for testing and wraps the password function.
var GetPassword func(title, description, prompt string) ([]byte, error) = password

// password asks the user for a password using pinentry if available and
// falls back to stdin if not.
func password(title, description, prompt string) ([]byte, error) {
	var (
		err         error
		client      *pinentry.Client
		password    string
		usePinentry bool = true
	)

	if client, err = GetPinentry(
		pinentry.WithBinaryNameFromGnuPGAgentConf(),
		pinentry.WithDesc(description),
		pinentry.WithGPGTTY(),
		pinentry.WithPrompt(prompt),
		pinentry.WithTitle(title),
	); err != nil {
		var b []byte
		if b, err = readPassword(prompt); err != nil {
			return nil, err
		}
		password = string(b)
		usePinentry = false
	}

	if usePinentry {
		defer client.Close()
		password, _, err = client.GetPIN()
		if pinentry.IsCancelled(err) {
			return nil, ErrCancelled
		}
		if err != nil {
			return nil, err
		}
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, fmt.Errorf("no password provided")
	}
	return []byte(password), nil
}

// GetPinentry gets a pinentry client
//
// This is a mockable entry point for testing and wraps the pinentry client.
var GetPinentry func(options ...pinentry.ClientOption) (c *pinentry.Client, err error) = func(options ...pinentry.ClientOption) (c *pinentry.Client, err error) {
	return pinentry.NewClient(options...)
}

var readPassword func(prompt string) ([]byte, error) = ReadPassword
