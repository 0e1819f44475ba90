package registry

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Decryptor performs RSA-OAEP decryption bound to the registering
// library's private key. Implemented by internal/keys.
type Decryptor interface {
	Decrypt(ciphertext []byte) ([]byte, error)
}

// DecryptSharedSecret base64-decodes and RSA-OAEP-decrypts a registry-issued
// shared secret. Failures report the offending ciphertext, never any
// plaintext.
func DecryptSharedSecret(decryptor Decryptor, base64Ciphertext string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(base64Ciphertext)
	if err != nil {
		return nil, NewProblem(ErrSharedSecretDecryption,
			fmt.Sprintf("could not decrypt shared secret %s", base64Ciphertext))
	}

	plaintext, err := decryptor.Decrypt(ciphertext)
	if err != nil {
		return nil, NewProblem(ErrSharedSecretDecryption,
			fmt.Sprintf("could not decrypt shared secret %s", base64Ciphertext))
	}

	if !utf8.Valid(plaintext) {
		return nil, NewProblem(ErrSharedSecretDecryption,
			fmt.Sprintf("shared secret %s did not decrypt to UTF-8 text", base64Ciphertext))
	}

	return plaintext, nil
}
