// Copyright (c) 2019, Daniel Martí <mvdan@mvdan.cc>
// This file is covered by the license at https://github.com/mvdan/bitw/blob/master/LICENSE
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/awnumar/memguard"
	"github.com/notapipeline/sealer/pkg/types"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"
)

// pbkdf is referenced as a variable so tests can count derivations
var pbkdf = pbkdf2.Key

// NormalizeSecret hashes a caller supplied secret of any length with
// Keccak-512 and returns the lowercase hex text of the digest. That text is
// the password fed to DeriveKey.
func NormalizeSecret(secret []byte) []byte {
	h := sha3.NewLegacyKeccak512()
	h.Write(secret)
	sum := h.Sum(nil)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	memguard.WipeBytes(sum)
	return out
}

// DeriveKey stretches password and salt into a working key with PBKDF2.
//
// A new key is derived on every call; keys are never cached.
func DeriveKey(password, salt []byte, kdf types.KDFInfo) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: no secret provided", types.ErrConfig)
	}
	if err := kdf.Validate(); err != nil {
		return nil, err
	}
	h, err := kdf.Hash.New()
	if err != nil {
		return nil, err
	}
	return pbkdf(password, salt, kdf.Iterations, kdf.KeySize(), h), nil
}

// Seal encrypts plaintext under a key derived from password and a fresh
// random salt, then tags salt, iv and ciphertext with HMAC-SHA256.
func Seal(plaintext, password []byte, kdf types.KDFInfo) (e types.Envelope, err error) {
	var key []byte

	if e.Salt, err = GenerateRandom(types.SaltBytes * 8); err != nil {
		return types.Envelope{}, err
	}
	if e.IV, err = GenerateRandom(types.IVBytes * 8); err != nil {
		return types.Envelope{}, err
	}

	if key, err = DeriveKey(password, e.Salt, kdf); err != nil {
		return types.Envelope{}, err
	}
	defer memguard.WipeBytes(key)

	if e.CT, err = EncryptWith(plaintext, key, e.IV); err != nil {
		return types.Envelope{}, err
	}

	e.MAC = Sign([]byte(e.Body()), key)
	return e, nil
}

// Open parses, authenticates and decrypts an envelope.
//
// The MAC is verified before any decryption is attempted. No plaintext is
// returned for an envelope that fails verification.
func Open(envelope string, password []byte, kdf types.KDFInfo) ([]byte, error) {
	var (
		e   types.Envelope
		key []byte
		err error
	)

	if err = e.UnmarshalText([]byte(envelope)); err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	if key, err = DeriveKey(password, e.Salt, kdf); err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(key)

	if !ValidMAC([]byte(e.Body()), e.MAC, key) {
		return nil, fmt.Errorf("decrypt: %w", types.ErrIntegrity)
	}

	return DecryptWith(e.CT, key, e.IV)
}

// EncryptWith encrypts data with AES-CBC and PKCS#7 padding
func EncryptWith(data, key, iv []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("encrypt: iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	data = PadPKCS7(data, aes.BlockSize)

	ct := make([]byte, len(data))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ct, data)
	return ct, nil
}

// DecryptWith reverses EncryptWith
func DecryptWith(ct, key, iv []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("decrypt: %w: iv must be %d bytes, got %d", types.ErrInvalidEnvelope, aes.BlockSize, len(iv))
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("decrypt: %w: ciphertext is %d bytes, not a positive multiple of %d",
			types.ErrInvalidEnvelope, len(ct), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	mode := cipher.NewCBCDecrypter(block, iv)
	dst := make([]byte, len(ct))
	mode.CryptBlocks(dst, ct)
	if dst, err = UnpadPKCS7(dst, aes.BlockSize); err != nil {
		return nil, fmt.Errorf("decrypt: %w: %v", types.ErrInvalidEnvelope, err)
	}
	return dst, nil
}

func UnpadPKCS7(src []byte, size int) ([]byte, error) {
	if len(src) == 0 || len(src)%size != 0 {
		return nil, fmt.Errorf("expected PKCS7 padding for block size %d, but have %d bytes", size, len(src))
	}
	n := src[len(src)-1]
	if n == 0 || int(n) > size {
		return nil, fmt.Errorf("invalid PKCS7 pad byte %d for block size %d", n, size)
	}
	if len(src) < int(n) {
		return nil, fmt.Errorf("cannot unpad %d bytes out of a total of %d", n, len(src))
	}
	for _, b := range src[len(src)-int(n):] {
		if b != n {
			return nil, fmt.Errorf("inconsistent PKCS7 padding")
		}
	}
	return src[:len(src)-int(n)], nil
}

func PadPKCS7(src []byte, size int) []byte {
	// Note that we always pad, even if rem==0. This is because unpad must
	// always remove at least one byte to be unambiguous.
	rem := len(src) % size
	n := size - rem
	if n > math.MaxUint8 {
		panic(fmt.Sprintf("cannot pad over %d bytes, but got %d", math.MaxUint8, n))
	}
	padded := make([]byte, len(src)+n)
	copy(padded, src)
	for i := len(src); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Sign returns HMAC-SHA256 of message under key
func Sign(message, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

func ValidMAC(message, messageMAC, key []byte) bool {
	return hmac.Equal(messageMAC, Sign(message, key))
}
