/*
Package crypto provides the primitives behind a sealed envelope: secret
normalization, PBKDF2 key derivation, AES-256-CBC encryption and an
HMAC-SHA256 tag over the envelope text.

Every call to Seal draws a fresh 128 bit salt and 128 bit iv from
crypto/rand and derives a fresh key from them. Derived keys are wiped as
soon as the call returns and are never cached.

Open verifies the tag before it decrypts anything. A tampered envelope and
an envelope opened with the wrong secret both fail with types.ErrIntegrity
and cannot be told apart.

	package main

	import (
		"fmt"

		"github.com/notapipeline/sealer/pkg/crypto"
		"github.com/notapipeline/sealer/pkg/types"
	)

	func main() {
		var (
			password = crypto.NormalizeSecret([]byte("s3cr3t"))
			kdf      = types.DefaultKDF()
		)

		envelope, err := crypto.Seal([]byte("hello"), password, kdf)
		if err != nil {
			panic(err)
		}

		plaintext, err := crypto.Open(envelope.String(), password, kdf)
		if err != nil {
			panic(err)
		}

		fmt.Println(string(plaintext)) // "hello"
	}

The iteration count is not stored in the envelope. Changing it makes every
envelope produced with the old value undecryptable unless the old value is
supplied out of band.
*/
package crypto
