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
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notapipeline/sealer/pkg/types"
)

func setupSuite(t *testing.T) func(t *testing.T) {
	t.Log("Setting up config suite")
	tempDir := t.TempDir()
	ConfigPath = func() string {
		return filepath.Join(tempDir, "config.yaml")
	}
	err := os.WriteFile(ConfigPath(), []byte(`
kdf:
  hash: sha512
  iterations: 2000
  keybits: 256
encoder: Latin1
loglevel: warn
secretenv: MY_SECRET
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	return func(t *testing.T) {
		ConfigPath = getConfigPath
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, types.DefaultKDF(), c.KDF())
	assert.Equal(t, types.EncoderDefault, c.Encoder())
	assert.Equal(t, uint32(log.InfoLevel), c.Level())
	assert.Equal(t, DefaultSecretEnv, c.SecretEnv)
	assert.NoError(t, c.Validate())
}

func TestConfig_Load(t *testing.T) {
	teardownSuite := setupSuite(t)
	defer teardownSuite(t)

	c := New()
	require.NoError(t, c.Load(""))

	assert.Equal(t, types.KDFInfo{Hash: types.KDFHashSHA512, Iterations: 2000, KeyBits: 256}, c.KDF())
	assert.Equal(t, types.EncoderLatin1, c.Encoder())
	assert.Equal(t, uint32(log.WarnLevel), c.Level())
	assert.Equal(t, "MY_SECRET", c.SecretEnv)
	assert.NoError(t, c.Validate())
}

func TestConfig_LoadMissingFile(t *testing.T) {
	c := New()
	require.NoError(t, c.Load(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Equal(t, types.DefaultKDF(), c.KDF())
}

func TestConfig_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kdf: [not, a, map"), 0644))

	c := New()
	assert.ErrorIs(t, c.Load(path), types.ErrConfig)
}

func TestConfig_EnvironmentOverridesFile(t *testing.T) {
	teardownSuite := setupSuite(t)
	defer teardownSuite(t)

	t.Setenv("SEALER_KDF_ITERATIONS", "5000")
	t.Setenv("SEALER_KDF_HASH", "sha1")
	t.Setenv("SEALER_ENCODER", "hex")
	t.Setenv("SEALER_LOG_LEVEL", "error")
	t.Setenv("SEALER_SECRET_ENV", "OTHER_SECRET")

	c := New()
	require.NoError(t, c.Load(""))

	assert.Equal(t, 5000, c.KDF().Iterations)
	assert.Equal(t, types.KDFHashSHA1, c.KDF().Hash)
	assert.Equal(t, types.EncoderHex, c.Encoder())
	assert.Equal(t, uint32(log.ErrorLevel), c.Level())
	assert.Equal(t, "OTHER_SECRET", c.SecretEnv)
}

func TestConfig_LoadBadEnvironment(t *testing.T) {
	t.Setenv("SEALER_KDF_ITERATIONS", "lots")

	c := New()
	assert.ErrorIs(t, c.Load(filepath.Join(t.TempDir(), "missing.yaml")), types.ErrConfig)
}

func TestConfig_MergeFlags(t *testing.T) {
	tests := []struct {
		name     string
		cmd      types.GlobalCmd
		expected func(c *Config)
	}{
		{
			name:     "nothing set",
			cmd:      types.GlobalCmd{},
			expected: func(c *Config) {},
		},
		{
			name: "kdf",
			cmd:  types.GlobalCmd{Iterations: 42, Hash: "sha512"},
			expected: func(c *Config) {
				c.Derivation.Iterations = 42
				c.Derivation.Hash = types.KDFHashSHA512
			},
		},
		{
			name: "encoder and secret",
			cmd:  types.GlobalCmd{Encoder: "Utf16LE", SecretEnv: "FLAG_SECRET"},
			expected: func(c *Config) {
				c.EncoderName = "Utf16LE"
				c.SecretEnv = "FLAG_SECRET"
			},
		},
		{
			name:     "quiet",
			cmd:      types.GlobalCmd{Quiet: true},
			expected: func(c *Config) { c.LogLevel = "panic" },
		},
		{
			name:     "debug wins over quiet",
			cmd:      types.GlobalCmd{Quiet: true, Debug: true},
			expected: func(c *Config) { c.LogLevel = "debug" },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			expected := New()
			test.expected(expected)

			c := New()
			c.MergeFlags(test.cmd)
			assert.Equal(t, expected, c)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "zero iterations", modify: func(c *Config) { c.Derivation.Iterations = 0 }},
		{name: "unknown hash", modify: func(c *Config) { c.Derivation.Hash = "md5" }},
		{name: "wrong key size", modify: func(c *Config) { c.Derivation.KeyBits = 128 }},
		{name: "unknown encoder", modify: func(c *Config) { c.EncoderName = "ebcdic" }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "chatty" }},
		{name: "empty secret env", modify: func(c *Config) { c.SecretEnv = "" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := New()
			test.modify(c)
			assert.ErrorIs(t, c.Validate(), types.ErrConfig)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	teardownSuite := setupSuite(t)
	defer teardownSuite(t)

	c := New()
	c.Derivation.Iterations = 777
	c.EncoderName = "Base64"
	require.NoError(t, c.Save())

	loaded := New()
	require.NoError(t, loaded.Load(""))
	assert.Equal(t, c, loaded)
}
