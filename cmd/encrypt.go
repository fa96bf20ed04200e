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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/notapipeline/sealer/pkg/types"
)

var encryptFlags types.EncryptCmd

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Seal a value into an envelope",
	Long: `Seal a value into an envelope.

The value is taken from the arguments or, when none are given, from stdin.
With --json the input is parsed as a JSON document and sealed as an object so
it decrypts back to the same structure.

Further values may be appended to the buffer with --append before sealing:

	sealer encrypt --append " world" hello

With --output secret the envelope is wrapped in a Kubernetes Secret manifest:

	sealer encrypt --output secret --name db --key password hunter2`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			input    string
			fromArgs bool
			value    interface{}
		)

		if input, fromArgs, err = readInput(cmd, args); err != nil {
			return err
		}
		value = input
		if encryptFlags.JSON {
			if value, err = parseJSON(input); err != nil {
				return err
			}
		}

		s, err := newSealer(fromArgs)
		if err != nil {
			return err
		}

		s.Update(value)
		for _, a := range encryptFlags.Append {
			s.Append(a)
		}

		var envelope string
		if envelope, err = s.Encrypt(); err != nil {
			return err
		}
		return writeEnvelope(cmd, envelope)
	},
}

func init() {
	encryptCmd.Flags().BoolVar(&encryptFlags.JSON, "json", false, "treat the input as a JSON document")
	encryptCmd.Flags().StringArrayVarP(&encryptFlags.Append, "append", "a", []string{}, "append a value to the input (may be specified multiple times)")
	encryptCmd.Flags().StringVarP(&encryptFlags.Output, "output", "o", types.OutputText, "output format, one of text or secret")
	encryptCmd.Flags().StringVar(&encryptFlags.Name, "name", "sealed", "name of the Kubernetes Secret")
	encryptCmd.Flags().StringVar(&encryptFlags.Key, "key", "value", "key the envelope is stored under in the Kubernetes Secret")
	encryptCmd.Flags().StringVarP(&encryptFlags.Namespace, "namespace", "n", "", "namespace of the Kubernetes Secret")
	rootCmd.AddCommand(encryptCmd)
}

func parseJSON(input string) (value interface{}, err error) {
	d := json.NewDecoder(bytes.NewBufferString(input))
	d.UseNumber()
	if err = d.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: input is not valid JSON: %v", types.ErrConfig, err)
	}
	if d.More() {
		return nil, fmt.Errorf("%w: input holds more than one JSON document", types.ErrConfig)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: no data provided", types.ErrConfig)
	}
	return value, nil
}

func writeEnvelope(cmd *cobra.Command, envelope string) error {
	switch encryptFlags.Output {
	case types.OutputText, "":
		fmt.Fprintln(cmd.OutOrStdout(), envelope)
		return nil
	case types.OutputSecret:
		b, err := yaml.Marshal(secretManifest(envelope))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q", types.ErrConfig, encryptFlags.Output)
}

func secretManifest(envelope string) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      encryptFlags.Name,
			Namespace: encryptFlags.Namespace,
		},
		Type: corev1.SecretTypeOpaque,
		StringData: map[string]string{
			encryptFlags.Key: envelope,
		},
	}
}
