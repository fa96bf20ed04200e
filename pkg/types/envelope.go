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
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

var b64enc = base64.StdEncoding.Strict()

// Envelope holds everything required to decrypt a value given the secret.
//
// The text format is:
//
//	<salt><iv><ct><mac>
//
// Where:
//
//	<salt> is the PBKDF2 salt - lowercase hex - 16 bytes, 32 characters
//	<iv>   is the initialization vector - lowercase hex - 16 bytes, 32 characters
//	<ct>   is the AES-CBC ciphertext - base64 encoded - arbitrary length
//	<mac>  is HMAC-SHA256 over all preceding characters - lowercase hex - 64 characters
//
// There is no version marker. Any change to this layout breaks every
// envelope already stored.
type Envelope struct {
	Salt, IV, CT, MAC []byte

	// body is the authenticated text exactly as it was received
	body string
}

// IsZero - returns true if the Envelope is empty
func (e Envelope) IsZero() bool {
	return e.Salt == nil && e.IV == nil && e.CT == nil && e.MAC == nil
}

// Body returns the text covered by the MAC.
//
// For an envelope read with UnmarshalText this is the received text verbatim
// so verification is always performed over what was actually transmitted.
func (e Envelope) Body() string {
	if e.body != "" {
		return e.body
	}
	if e.IsZero() {
		return ""
	}
	return hex.EncodeToString(e.Salt) +
		hex.EncodeToString(e.IV) +
		b64enc.EncodeToString(e.CT)
}

// String - convert an Envelope to its text form
func (e Envelope) String() string {
	if e.IsZero() {
		return ""
	}
	return e.Body() + hex.EncodeToString(e.MAC)
}

// MarshalText - convert an Envelope to a byte slice
func (e Envelope) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText - parse an envelope from its text form.
//
// Input shorter than MinEnvelopeLength fails with ErrInvalidEnvelope before
// any field is looked at. Fields which are not canonical lowercase hex or
// strict base64 can never carry a valid MAC and fail with ErrIntegrity.
func (e *Envelope) UnmarshalText(data []byte) error {
	if len(data) < MinEnvelopeLength {
		return fmt.Errorf("%w: expected at least %d characters, got %d",
			ErrInvalidEnvelope, MinEnvelopeLength, len(data))
	}

	var (
		text string = string(data)
		end  int    = len(text) - MACLength
		err  error
	)

	if e.Salt, err = lowerHex(text[:SaltLength]); err != nil {
		return err
	}
	if e.IV, err = lowerHex(text[SaltLength:HeaderLength]); err != nil {
		return err
	}
	if e.MAC, err = lowerHex(text[end:]); err != nil {
		return err
	}
	if e.CT, err = b64enc.DecodeString(text[HeaderLength:end]); err != nil {
		return fmt.Errorf("%w: malformed ciphertext", ErrIntegrity)
	}
	e.body = text[:end]
	return nil
}

// lowerHex decodes s only when it is canonical lowercase hex so that two
// different texts never decode to the same field.
func lowerHex(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return nil, fmt.Errorf("%w: malformed field", ErrIntegrity)
		}
	}
	return hex.DecodeString(s)
}
