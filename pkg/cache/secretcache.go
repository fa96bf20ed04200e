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
	"encoding/hex"
	"fmt"

	"github.com/awnumar/memguard"
	"github.com/notapipeline/sealer/pkg/crypto"
	"github.com/notapipeline/sealer/pkg/types"
)

// SecretCache holds the normalized form of the caller's secret.
//
// The raw secret is hashed as soon as it is received and only the hash is
// kept, sealed inside a memguard enclave. The enclave is opened for the
// duration of a single key derivation and the plaintext copy destroyed
// straight after.
//
// A SecretCache is not safe for concurrent use. Rotate must not race with
// Use.
type SecretCache struct {
	enclave *memguard.Enclave
}

var (
	// seal moves b into an encrypted enclave, wiping b
	seal func(b []byte) *memguard.Enclave = memguard.NewEnclave

	normalize func(secret []byte) []byte = crypto.NormalizeSecret
)

// New creates a cache from a text secret. An empty secret fails with
// types.ErrConfig.
func New(secret string) (*SecretCache, error) {
	c := &SecretCache{}
	if err := c.Rotate(secret); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes creates a cache from a binary secret such as a previously
// generated random key. The bytes are rendered as lowercase hex text before
// hashing.
func NewFromBytes(secret []byte) (*SecretCache, error) {
	c := &SecretCache{}
	if err := c.RotateBytes(secret); err != nil {
		return nil, err
	}
	return c, nil
}

// Rotate replaces the stored secret. Envelopes sealed under the previous
// secret can no longer be opened through this cache.
func (c *SecretCache) Rotate(secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: a secret key is required", types.ErrConfig)
	}
	return c.set([]byte(secret))
}

// RotateBytes replaces the stored secret with a binary one
func (c *SecretCache) RotateBytes(secret []byte) error {
	if len(secret) == 0 {
		return fmt.Errorf("%w: a secret key is required", types.ErrConfig)
	}
	return c.set([]byte(hex.EncodeToString(secret)))
}

func (c *SecretCache) set(secret []byte) error {
	var normalized []byte = normalize(secret)
	memguard.WipeBytes(secret)

	enclave := seal(normalized)
	if enclave == nil {
		return fmt.Errorf("%w: failed to seal secret in protected memory", types.ErrConfig)
	}
	c.enclave = enclave
	return nil
}

// Use opens the enclave and passes the normalized secret to fn. The slice
// is destroyed when fn returns and must not be retained.
func (c *SecretCache) Use(fn func(normalized []byte) error) error {
	if c == nil || c.enclave == nil {
		return fmt.Errorf("%w: no secret key has been set", types.ErrConfig)
	}

	buf, err := c.enclave.Open()
	if err != nil {
		return fmt.Errorf("failed to open secret enclave: %w", err)
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}
