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
	"gopkg.in/yaml.v2"

	"github.com/notapipeline/sealer/pkg/config"
)

var saveConfig bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after the config file, environment and flags
have been merged.

With --save the result is written to $HOME/.config/sealer/config.yaml so the
same settings apply to later runs. Envelopes can only be opened with the kdf
settings they were sealed with.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))

		if saveConfig {
			if err = cfg.Save(); err != nil {
				return err
			}
			log.Infof("configuration written to %s", config.ConfigPath())
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&saveConfig, "save", false, "write the effective configuration to the config file")
	rootCmd.AddCommand(configCmd)
}
