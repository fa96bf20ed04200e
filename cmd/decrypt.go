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
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/notapipeline/sealer/pkg/types"
)

var decryptFlags types.DecryptCmd

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt [envelope]",
	Short: "Open an envelope",
	Long: `Open an envelope and print what was sealed inside it.

The envelope is taken from the first argument or, when none is given, from
stdin. The plaintext is rendered with the active encoder (--encoder) and then
typed: booleans, numbers and JSON documents come back as such, anything else
as a string.

A tampered envelope and an envelope sealed under a different secret both
fail the same way.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			envelope string
			fromArgs bool
			value    types.Value
		)

		if envelope, fromArgs, err = readInput(cmd, args); err != nil {
			return err
		}

		s, err := newSealer(fromArgs)
		if err != nil {
			return err
		}

		if value, err = s.Decrypt(strings.TrimSpace(envelope)); err != nil {
			return err
		}
		return writeValue(cmd, value)
	},
}

func init() {
	decryptCmd.Flags().StringVarP(&decryptFlags.Output, "output", "o", types.OutputText, "output format, one of text, json or yaml")
	rootCmd.AddCommand(decryptCmd)
}

func writeValue(cmd *cobra.Command, value types.Value) (err error) {
	var b []byte
	switch decryptFlags.Output {
	case types.OutputText, "":
		fmt.Fprintln(cmd.OutOrStdout(), value.String())
		return nil
	case types.OutputJSON:
		if b, err = prettyjson.Marshal(value.Interface()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	case types.OutputYAML:
		if b, err = yaml.Marshal(value.Interface()); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q", types.ErrConfig, decryptFlags.Output)
}
