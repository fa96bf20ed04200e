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

	"github.com/spf13/cobra"

	"github.com/notapipeline/sealer/pkg/crypto"
	"github.com/notapipeline/sealer/pkg/types"
)

var randomFlags types.RandomCmd

// randomCmd represents the random command
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print cryptographically random data as hex",
	Long: `Print cryptographically random data as lowercase hex.

The output is suitable for use as a secret:

	export SEALER_SECRET=$(sealer random --bits 256)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := crypto.GenerateRandomString(randomFlags.Bits)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	randomCmd.Flags().IntVarP(&randomFlags.Bits, "bits", "b", types.DefaultRandomBits, "number of random bits, a multiple of 8")
	rootCmd.AddCommand(randomCmd)
}
