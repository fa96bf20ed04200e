package types

import "errors"

var (
	// ErrConfig is returned when a required secret or data value is absent or
	// when configuration is invalid.
	ErrConfig = errors.New("configuration error")

	// ErrUnsupportedType is returned when a value is not an object, string,
	// number or boolean.
	ErrUnsupportedType = errors.New("unsupported data type")

	// ErrInvalidEnvelope is returned when an envelope is too short to be
	// parsed or its ciphertext is structurally invalid.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrIntegrity is returned when the envelope fails authentication. This
	// covers both tampering and decryption with the wrong secret and the two
	// are deliberately not distinguished.
	ErrIntegrity = errors.New("envelope failed authentication")

	// ErrEncoding is returned when decrypted bytes cannot be rendered to text
	// with the selected encoder.
	ErrEncoding = errors.New("encoding error")
)
