// Package keys consumes the RSA keypair every library is provisioned with.
// Keypair generation and storage happen elsewhere; this package only parses
// stored PEM material and performs the OAEP decryption the registration
// protocol calls for.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// GenerateKeyPair creates a fresh 2048-bit RSA keypair for a new library,
// returning PEM-encoded private and public keys.
func GenerateKeyPair() (privatePEM, publicPEM string, err error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate keypair: %w", err)
	}

	privatePEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
	publicPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	}))
	return privatePEM, publicPEM, nil
}

// ParsePrivateKey parses a PEM-encoded RSA private key in either PKCS#1 or
// PKCS#8 form.
func ParsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an RSA key")
	}
	return key, nil
}

// Decryptor decrypts RSA-OAEP ciphertext bound to one library's private
// key. The registration protocol uses OAEP with SHA-1.
type Decryptor struct {
	key *rsa.PrivateKey
}

// NewDecryptor builds a Decryptor from PEM-encoded private key material.
func NewDecryptor(pemData string) (*Decryptor, error) {
	key, err := ParsePrivateKey(pemData)
	if err != nil {
		return nil, err
	}
	return &Decryptor{key: key}, nil
}

// Decrypt decrypts one OAEP ciphertext.
func (d *Decryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha1.New(), nil, d.key, ciphertext, nil)
}

// Encrypt encrypts plaintext under a public key with the same OAEP
// parameters the registry uses. Primarily a testing aid.
func Encrypt(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	return rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, plaintext, nil)
}
