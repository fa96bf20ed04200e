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
package sealer

import (
	"fmt"

	"github.com/notapipeline/sealer/pkg/cache"
	"github.com/notapipeline/sealer/pkg/codec"
	"github.com/notapipeline/sealer/pkg/crypto"
	"github.com/notapipeline/sealer/pkg/logger"
	"github.com/notapipeline/sealer/pkg/types"
)

// Sealer stages a value in a text buffer and turns it into a sealed
// envelope, or stages an envelope and turns it back into a value.
//
// Update, Append, SetEncoder and SetSecret return the same *Sealer so calls
// can be chained. The first error raised by a chained call is kept and
// returned by the next terminal call (Encrypt, Decrypt and friends), which
// then clears it. Err reports it without clearing.
//
// The buffer is not cleared by a terminal call and may be reused.
//
// A Sealer is not safe for concurrent use. Use one per goroutine or guard
// it with a lock.
type Sealer struct {
	secret  *cache.SecretCache
	encoder types.Encoder
	kdf     types.KDFInfo
	log     logger.Logger
	buffer  string
	err     error
}

// Option configures a Sealer at construction
type Option func(*Sealer)

// WithKDF overrides the key derivation parameters. Envelopes can only be
// opened with the parameters they were sealed with.
func WithKDF(kdf types.KDFInfo) Option {
	return func(s *Sealer) {
		s.kdf = kdf
	}
}

// WithEncoder sets the encoder used to render decrypted bytes as text
func WithEncoder(e types.Encoder) Option {
	return func(s *Sealer) {
		s.encoder = e
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(s *Sealer) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Sealer for a text secret. An empty secret fails with
// types.ErrConfig.
func New(secret string, opts ...Option) (*Sealer, error) {
	c, err := cache.New(secret)
	if err != nil {
		return nil, err
	}
	return build(c, opts...)
}

// NewWithKey creates a Sealer for a binary secret, such as one produced by
// crypto.GenerateRandom.
func NewWithKey(key []byte, opts ...Option) (*Sealer, error) {
	c, err := cache.NewFromBytes(key)
	if err != nil {
		return nil, err
	}
	return build(c, opts...)
}

func build(c *cache.SecretCache, opts ...Option) (*Sealer, error) {
	s := &Sealer{
		secret:  c,
		encoder: types.EncoderDefault,
		kdf:     types.DefaultKDF(),
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.kdf.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.encoder.MarshalText(); err != nil {
		return nil, err
	}
	return s, nil
}

// Err returns the first error raised by a chained call, if any
func (s *Sealer) Err() error {
	return s.err
}

// Buffer returns the text currently staged
func (s *Sealer) Buffer() string {
	return s.buffer
}

// Encoder returns the active encoder
func (s *Sealer) Encoder() types.Encoder {
	return s.encoder
}

func (s *Sealer) fail(err error) *Sealer {
	if s.err == nil {
		s.err = err
	}
	return s
}

func (s *Sealer) takeErr() error {
	err := s.err
	s.err = nil
	return err
}

// Update replaces the buffer with the encoded form of value
func (s *Sealer) Update(value interface{}) *Sealer {
	if s.err != nil {
		return s
	}
	text, err := codec.Encode(value)
	if err != nil {
		return s.fail(err)
	}
	s.buffer = text
	return s
}

// Append adds the encoded form of value to the end of the buffer
func (s *Sealer) Append(value interface{}) *Sealer {
	if s.err != nil {
		return s
	}
	text, err := codec.Encode(value)
	if err != nil {
		return s.fail(err)
	}
	s.buffer += text
	return s
}

// SetEncoder changes the encoder used by subsequent decrypt calls
func (s *Sealer) SetEncoder(e types.Encoder) *Sealer {
	if s.err != nil {
		return s
	}
	if _, err := e.MarshalText(); err != nil {
		return s.fail(err)
	}
	s.encoder = e
	return s
}

// SetSecret rotates the secret. Envelopes sealed under the previous secret
// can no longer be opened by this Sealer.
func (s *Sealer) SetSecret(secret string) *Sealer {
	if s.err != nil {
		return s
	}
	if err := s.secret.Rotate(secret); err != nil {
		return s.fail(err)
	}
	s.log.Debugf("secret rotated")
	return s
}

// SetSecretBytes rotates to a binary secret
func (s *Sealer) SetSecretBytes(secret []byte) *Sealer {
	if s.err != nil {
		return s
	}
	if err := s.secret.RotateBytes(secret); err != nil {
		return s.fail(err)
	}
	s.log.Debugf("secret rotated")
	return s
}

// Encrypt seals the buffer and returns the envelope text. If a value is
// given it replaces the buffer first, exactly as Update would.
func (s *Sealer) Encrypt(value ...interface{}) (string, error) {
	if len(value) > 1 {
		s.fail(fmt.Errorf("%w: encrypt takes at most one value, got %d", types.ErrConfig, len(value)))
	} else if len(value) == 1 {
		s.Update(value[0])
	}
	if err := s.takeErr(); err != nil {
		return "", err
	}

	s.log.Debugf("encrypting %d bytes with %d iterations", len(s.buffer), s.kdf.Iterations)

	var envelope types.Envelope
	err := s.secret.Use(func(password []byte) (err error) {
		envelope, err = crypto.Seal([]byte(s.buffer), password, s.kdf)
		return err
	})
	if err != nil {
		s.log.Debugf("encrypt failed: %v", err)
		return "", err
	}
	return envelope.String(), nil
}

// DecryptOptions replaces the historic positional decrypt arguments.
//
// ExpectsObject is accepted for compatibility with callers that used to
// pass a boolean flag. It has no effect; the decoded kind is always
// detected from the plaintext.
type DecryptOptions struct {
	Encoder       *types.Encoder
	ExpectsObject bool
}

// Decrypt opens the buffer and decodes the plaintext. If an envelope is
// given it replaces the buffer verbatim first.
func (s *Sealer) Decrypt(envelope ...string) (types.Value, error) {
	return s.DecryptWith(DecryptOptions{}, envelope...)
}

// DecryptWith is Decrypt with options. A non nil opts.Encoder is set as the
// active encoder before decrypting and stays active afterwards.
func (s *Sealer) DecryptWith(opts DecryptOptions, envelope ...string) (types.Value, error) {
	if len(envelope) > 1 {
		s.fail(fmt.Errorf("%w: decrypt takes at most one envelope, got %d", types.ErrConfig, len(envelope)))
	} else if len(envelope) == 1 && s.err == nil {
		s.buffer = envelope[0]
	}
	if opts.Encoder != nil {
		s.SetEncoder(*opts.Encoder)
	}
	if err := s.takeErr(); err != nil {
		return types.Value{}, err
	}

	s.log.Debugf("decrypting envelope of %d characters with %d iterations, encoder %s",
		len(s.buffer), s.kdf.Iterations, s.encoder)

	var text string
	err := s.secret.Use(func(password []byte) error {
		plaintext, err := crypto.Open(s.buffer, password, s.kdf)
		if err != nil {
			return err
		}
		text, err = s.encoder.Stringify(plaintext)
		return err
	})
	if err != nil {
		s.log.Debugf("decrypt failed: %v", err)
		return types.Value{}, err
	}
	return codec.Decode(text), nil
}

// EncryptObject is the legacy form of Update(value).Encrypt()
func (s *Sealer) EncryptObject(value interface{}) (string, error) {
	return s.Update(value).Encrypt()
}

// DecryptObject is the legacy form of Decrypt(envelope)
func (s *Sealer) DecryptObject(envelope string) (types.Value, error) {
	return s.Decrypt(envelope)
}
