/*
 *   Copyright 2023 Martin Proffitt <mproffitt@choclab.net>
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
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/notapipeline/sealer/pkg/sealer"
	"github.com/notapipeline/sealer/pkg/tools"
)

// getSecret is referenced as a variable so tests can supply the secret
var getSecret func(name string, interactive bool) ([]byte, error) = tools.GetSecret

// newSealer creates a Sealer from the effective configuration. The user is
// only prompted for the secret when stdin is not carrying the input.
func newSealer(interactive bool) (*sealer.Sealer, error) {
	secret, err := getSecret(cfg.SecretEnv, interactive)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(secret)

	return sealer.New(string(secret),
		sealer.WithKDF(cfg.KDF()),
		sealer.WithEncoder(cfg.Encoder()),
		sealer.WithLogger(log),
	)
}

// readInput returns the arguments joined by spaces or, when there are none,
// everything on stdin less a single trailing newline.
func readInput(cmd *cobra.Command, args []string) (input string, fromArgs bool, err error) {
	if len(args) > 0 {
		return strings.Join(args, " "), true, nil
	}

	var b []byte
	if b, err = io.ReadAll(cmd.InOrStdin()); err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	input = strings.TrimSuffix(string(b), "\n")
	input = strings.TrimSuffix(input, "\r")
	return input, false, nil
}
