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
package types

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// KDFHash names the PRF used by PBKDF2
type KDFHash string

// New returns the hash constructor for the named PRF
func (h KDFHash) New() (func() hash.Hash, error) {
	switch KDFHash(strings.ToLower(string(h))) {
	case KDFHashSHA1:
		return sha1.New, nil
	case KDFHashSHA256, "":
		return sha256.New, nil
	case KDFHashSHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("%w: unsupported kdf hash %q", ErrConfig, string(h))
}

// {"hash":"sha256","iterations":100,"keybits":256}
type KDFInfo struct {
	Hash       KDFHash `yaml:"hash" json:"hash" env:"SEALER_KDF_HASH"`
	Iterations int     `yaml:"iterations" json:"iterations" env:"SEALER_KDF_ITERATIONS"`
	KeyBits    int     `yaml:"keybits" json:"keybits" env:"SEALER_KDF_KEYBITS"`
}

// DefaultKDF returns the key derivation parameters used when nothing is
// configured.
func DefaultKDF() KDFInfo {
	return KDFInfo{
		Hash:       DefaultKDFHash,
		Iterations: DefaultIterations,
		KeyBits:    DefaultKeyBits,
	}
}

// KeySize returns the derived key length in bytes
func (k KDFInfo) KeySize() int {
	if k.KeyBits == 0 {
		return DefaultKeyBits / 8
	}
	return k.KeyBits / 8
}

// Validate checks the parameters can be used to derive an AES-256 key
func (k KDFInfo) Validate() error {
	if k.Iterations < 1 {
		return fmt.Errorf("%w: kdf iterations must be at least 1, got %d", ErrConfig, k.Iterations)
	}
	if k.KeyBits != 0 && k.KeyBits != DefaultKeyBits {
		return fmt.Errorf("%w: kdf key size must be %d bits, got %d", ErrConfig, DefaultKeyBits, k.KeyBits)
	}
	_, err := k.Hash.New()
	return err
}
