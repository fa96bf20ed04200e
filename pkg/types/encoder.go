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
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoder selects how decrypted plaintext bytes are rendered back to text
// before the text is type decoded.
//
// The set of encoders is fixed. Encoder values are plain identifiers and
// carry no state.
type Encoder int

const (
	EncoderDefault Encoder = iota
	EncoderUtf8
	EncoderHex
	EncoderLatin1
	EncoderUtf16
	EncoderUtf16BE
	EncoderUtf16LE
	EncoderBase64
	EncoderBase64url
)

var encoderNames = [...]string{
	EncoderDefault:   "Default",
	EncoderUtf8:      "Utf8",
	EncoderHex:       "Hex",
	EncoderLatin1:    "Latin1",
	EncoderUtf16:     "Utf16",
	EncoderUtf16BE:   "Utf16BE",
	EncoderUtf16LE:   "Utf16LE",
	EncoderBase64:    "Base64",
	EncoderBase64url: "Base64url",
}

// Encoders returns every available encoder in registry order
func Encoders() []Encoder {
	var e []Encoder = make([]Encoder, len(encoderNames))
	for i := range encoderNames {
		e[i] = Encoder(i)
	}
	return e
}

// ParseEncoder maps a case insensitive encoder name to its Encoder.
// An empty name selects EncoderDefault.
func ParseEncoder(name string) (Encoder, error) {
	if name == "" {
		return EncoderDefault, nil
	}
	for i, n := range encoderNames {
		if strings.EqualFold(n, name) {
			return Encoder(i), nil
		}
	}
	return EncoderDefault, fmt.Errorf("%w: unknown encoder %q", ErrConfig, name)
}

func (e Encoder) valid() bool {
	return e >= 0 && int(e) < len(encoderNames)
}

func (e Encoder) String() string {
	if !e.valid() {
		return fmt.Sprintf("Encoder(%d)", int(e))
	}
	return encoderNames[e]
}

// MarshalText - encode the encoder by name
func (e Encoder) MarshalText() ([]byte, error) {
	if !e.valid() {
		return nil, fmt.Errorf("%w: unknown encoder %d", ErrConfig, int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText - decode an encoder from its name
func (e *Encoder) UnmarshalText(data []byte) (err error) {
	*e, err = ParseEncoder(string(data))
	return
}

// Description is a short human readable summary of the encoder
func (e Encoder) Description() string {
	switch e {
	case EncoderDefault:
		return "UTF-8 text (default)"
	case EncoderUtf8:
		return "UTF-8 text"
	case EncoderHex:
		return "lowercase hexadecimal"
	case EncoderLatin1:
		return "ISO 8859-1 text"
	case EncoderUtf16, EncoderUtf16BE:
		return "UTF-16 big endian text"
	case EncoderUtf16LE:
		return "UTF-16 little endian text"
	case EncoderBase64:
		return "standard base64 with padding"
	case EncoderBase64url:
		return "URL safe base64 without padding"
	}
	return ""
}

// Stringify renders b as text
func (e Encoder) Stringify(b []byte) (string, error) {
	switch e {
	case EncoderDefault, EncoderUtf8:
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: malformed UTF-8 data", ErrEncoding)
		}
		return string(b), nil
	case EncoderHex:
		return hex.EncodeToString(b), nil
	case EncoderBase64:
		return base64.StdEncoding.EncodeToString(b), nil
	case EncoderBase64url:
		return base64.RawURLEncoding.EncodeToString(b), nil
	case EncoderLatin1:
		return decodeWith(charmap.ISO8859_1, b)
	case EncoderUtf16, EncoderUtf16BE:
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), b)
	case EncoderUtf16LE:
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), b)
	}
	return "", fmt.Errorf("%w: unknown encoder %d", ErrConfig, int(e))
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return string(out), nil
}
