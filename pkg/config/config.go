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
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v2"

	"github.com/notapipeline/sealer/pkg/logger"
	"github.com/notapipeline/sealer/pkg/types"
)

// DefaultSecretEnv is the environment variable the secret is read from
// unless configured otherwise
const DefaultSecretEnv = "SEALER_SECRET"

// ConfigPath is referenced as a variable so tests can point it elsewhere
var ConfigPath func() string = getConfigPath

type Config struct {
	Derivation  types.KDFInfo `yaml:"kdf"`
	EncoderName string        `yaml:"encoder" env:"SEALER_ENCODER"`
	LogLevel    string        `yaml:"loglevel" env:"SEALER_LOG_LEVEL"`
	SecretEnv   string        `yaml:"secretenv" env:"SEALER_SECRET_ENV"`
}

// New returns a config holding the defaults
func New() *Config {
	return &Config{
		Derivation:  types.DefaultKDF(),
		EncoderName: types.EncoderDefault.String(),
		LogLevel:    "info",
		SecretEnv:   DefaultSecretEnv,
	}
}

// Load the config file and then check the environment for overrides.
//
// The file is read from path, or ~/.config/sealer/config.yaml when path is
// empty. A missing file is not an error.
//
// Callers are expected to call MergeFlags afterwards so command line
// options take precedence.
func (c *Config) Load(path string) (err error) {
	if err = c.loadYaml(path); err != nil {
		return
	}
	return c.loadEnv()
}

func (c *Config) loadYaml(path string) (err error) {
	var yamlFile []byte
	if path == "" {
		path = ConfigPath()
	}

	if _, err = os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if yamlFile, err = os.ReadFile(path); err != nil {
		return err
	}

	if err = yaml.Unmarshal(yamlFile, c); err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", types.ErrConfig, path, err)
	}
	return nil
}

func (c *Config) loadEnv() (err error) {
	if err = env.Parse(c); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfig, err)
	}
	return nil
}

// MergeFlags overrides the loaded values with any flags that were set
func (c *Config) MergeFlags(cmd types.GlobalCmd) {
	if cmd.Iterations != 0 {
		c.Derivation.Iterations = cmd.Iterations
	}
	if cmd.Hash != "" {
		c.Derivation.Hash = types.KDFHash(cmd.Hash)
	}
	if cmd.Encoder != "" {
		c.EncoderName = cmd.Encoder
	}
	if cmd.SecretEnv != "" {
		c.SecretEnv = cmd.SecretEnv
	}
	if cmd.Quiet {
		c.LogLevel = "panic"
	}
	if cmd.Debug {
		c.LogLevel = "debug"
	}
}

// Validate checks every value can be used. All failures wrap
// types.ErrConfig.
func (c *Config) Validate() error {
	if err := c.Derivation.Validate(); err != nil {
		return err
	}
	if _, err := types.ParseEncoder(c.EncoderName); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfig, err)
	}
	if c.SecretEnv == "" {
		return fmt.Errorf("%w: secretenv must name an environment variable", types.ErrConfig)
	}
	return nil
}

// KDF returns the key derivation parameters
func (c *Config) KDF() types.KDFInfo {
	return c.Derivation
}

// Encoder returns the configured encoder, falling back to the default for
// names Validate would reject.
func (c *Config) Encoder() types.Encoder {
	e, err := types.ParseEncoder(c.EncoderName)
	if err != nil {
		return types.EncoderDefault
	}
	return e
}

// Level returns the configured log level for logger.NewLogger
func (c *Config) Level() uint32 {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		level, _ = logger.ParseLevel("")
	}
	return level
}

// Save writes the config back to the default location
func (c *Config) Save() (err error) {
	var data []byte
	if data, err = yaml.Marshal(c); err != nil {
		return err
	}

	var cp string = ConfigPath()
	if err = os.MkdirAll(filepath.Dir(cp), 0700); err != nil {
		return err
	}
	return os.WriteFile(cp, data, 0600)
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sealer", "config.yaml")
}
