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
package crypto

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/notapipeline/sealer/pkg/types"
)

// randReader must only ever be a cryptographically secure source
var randReader io.Reader = cryptorand.Reader

// GenerateRandom returns bits/8 cryptographically random bytes.
//
// bits must be a positive multiple of 8. Zero selects the default of 128.
func GenerateRandom(bits int) ([]byte, error) {
	if bits == 0 {
		bits = types.DefaultRandomBits
	}
	if bits < 0 || bits%8 != 0 {
		return nil, fmt.Errorf("%w: random length must be a positive multiple of 8 bits, got %d", types.ErrConfig, bits)
	}

	b := make([]byte, bits/8)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, fmt.Errorf("failed to read random data: %w", err)
	}
	return b, nil
}

// GenerateRandomString returns bits of random data as lowercase hex
func GenerateRandomString(bits int) (string, error) {
	b, err := GenerateRandom(bits)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
