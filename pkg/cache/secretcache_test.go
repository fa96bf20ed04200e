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
package cache

import (
	"errors"
	"testing"

	"github.com/awnumar/memguard"
	"github.com/notapipeline/sealer/pkg/crypto"
	"github.com/notapipeline/sealer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSuite(t *testing.T) func(t *testing.T) {
	return func(t *testing.T) {
		seal = memguard.NewEnclave
		normalize = crypto.NormalizeSecret
	}
}

func normalized(t *testing.T, c *SecretCache) string {
	var out string
	require.NoError(t, c.Use(func(b []byte) error {
		out = string(b)
		return nil
	}))
	return out
}

func TestNewRequiresSecret(t *testing.T) {
	c, err := New("")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, types.ErrConfig)

	c, err = NewFromBytes(nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestNewStoresNormalizedSecret(t *testing.T) {
	c, err := New("s3cr3t")
	require.NoError(t, err)

	var expected string = string(crypto.NormalizeSecret([]byte("s3cr3t")))
	assert.Equal(t, expected, normalized(t, c))
	assert.Len(t, normalized(t, c), 128)
}

func TestNewFromBytesHashesHexForm(t *testing.T) {
	c, err := NewFromBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)

	var expected string = string(crypto.NormalizeSecret([]byte("deadbeef")))
	assert.Equal(t, expected, normalized(t, c))
}

func TestRotateReplacesSecret(t *testing.T) {
	c, err := New("first")
	require.NoError(t, err)
	var before string = normalized(t, c)

	require.NoError(t, c.Rotate("second"))
	var after string = normalized(t, c)

	assert.NotEqual(t, before, after)
	assert.Equal(t, string(crypto.NormalizeSecret([]byte("second"))), after)

	// a failed rotation leaves the current secret in place
	assert.ErrorIs(t, c.Rotate(""), types.ErrConfig)
	assert.Equal(t, after, normalized(t, c))
}

func TestSecretIsNotHeldInPlaintext(t *testing.T) {
	teardownSuite := setupSuite(t)
	defer teardownSuite(t)

	var captured []byte
	normalize = func(secret []byte) []byte {
		captured = secret
		return crypto.NormalizeSecret(secret)
	}

	_, err := New("s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len("s3cr3t")), captured)
}

func TestSealFailure(t *testing.T) {
	teardownSuite := setupSuite(t)
	defer teardownSuite(t)

	seal = func(b []byte) *memguard.Enclave {
		return nil
	}

	_, err := New("s3cr3t")
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestUseWithoutSecret(t *testing.T) {
	var c *SecretCache
	assert.ErrorIs(t, c.Use(func([]byte) error { return nil }), types.ErrConfig)

	c = &SecretCache{}
	assert.ErrorIs(t, c.Use(func([]byte) error { return nil }), types.ErrConfig)
}

func TestUsePropagatesError(t *testing.T) {
	c, err := New("s3cr3t")
	require.NoError(t, err)

	var expected error = errors.New("boom")
	assert.ErrorIs(t, c.Use(func([]byte) error { return expected }), expected)
}
