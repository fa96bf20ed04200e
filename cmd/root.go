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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notapipeline/sealer/pkg/config"
	"github.com/notapipeline/sealer/pkg/logger"
	"github.com/notapipeline/sealer/pkg/types"
)

var (
	globalCmd types.GlobalCmd
	cfg       *config.Config = config.New()
	log       logger.Logger  = logger.NewLogger(uint32(logrus.InfoLevel))
)

var fatal func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sealer",
	Short: "Password based authenticated encryption",
	Long: `
Seal values into tamper evident envelopes and open them again.

An envelope is a single line of text holding the salt, iv, ciphertext and an
HMAC-SHA256 tag. Anyone holding the secret can open it; anyone without it can
neither read nor modify it undetected.

The secret is read from $SEALER_SECRET (see --secret-env), then KWallet, then
the Secret Service, and finally prompted for.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fatal("Error: %s", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalCmd.Config, "config", "", "config file (default is $HOME/.config/sealer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&globalCmd.Debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&globalCmd.Quiet, "quiet", false, "disable all logging")
	rootCmd.PersistentFlags().IntVar(&globalCmd.Iterations, "iterations", 0, "PBKDF2 iteration count (default 100)")
	rootCmd.PersistentFlags().StringVar(&globalCmd.Hash, "hash", "", "PBKDF2 hash, one of sha1, sha256 or sha512 (default sha256)")
	rootCmd.PersistentFlags().StringVarP(&globalCmd.Encoder, "encoder", "e", "", "encoder used to render decrypted data (see 'sealer encoders')")
	rootCmd.PersistentFlags().StringVar(&globalCmd.SecretEnv, "secret-env", "", "environment variable holding the secret (default SEALER_SECRET)")
}

// loadConfig builds the effective configuration from file, environment and
// flags, in that order, and sets up logging to match.
func loadConfig(cmd *cobra.Command, args []string) (err error) {
	c := config.New()
	if err = c.Load(globalCmd.Config); err != nil {
		return err
	}
	c.MergeFlags(globalCmd)
	if err = c.Validate(); err != nil {
		return err
	}

	cfg = c
	log = logger.NewLogger(cfg.Level())
	log.SetWriter(cmd.ErrOrStderr())
	log.Debugf("kdf %s with %d iterations, encoder %s", cfg.KDF().Hash, cfg.KDF().Iterations, cfg.Encoder())
	return nil
}
