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

// Envelope field sizes. All sizes are in characters of the envelope text
// unless suffixed with Bytes.
const (
	SaltBytes = 16
	IVBytes   = 16
	MACBytes  = 32

	SaltLength = SaltBytes * 2
	IVLength   = IVBytes * 2
	MACLength  = MACBytes * 2

	// HeaderLength is the length of the hex salt and iv prefix
	HeaderLength = SaltLength + IVLength

	// MinEnvelopeLength is the structural minimum of a well formed envelope,
	// salt, iv and mac with no ciphertext at all. Anything shorter is
	// rejected before any field is parsed.
	MinEnvelopeLength = HeaderLength + MACLength
)

// Key derivation defaults
const (
	DefaultIterations = 100
	DefaultKeyBits    = 256
	DefaultRandomBits = 128

	KDFHashSHA1   KDFHash = "sha1"
	KDFHashSHA256 KDFHash = "sha256"
	KDFHashSHA512 KDFHash = "sha512"

	DefaultKDFHash = KDFHashSHA256
)
