package cryptobox

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

const DefaultRSABits = 2048

// RSAOAEP seals messages with RSA-OAEP over SHA-256. Keys are PEM encoded
// (PKIX public, PKCS#8 private) and ciphertexts are base64.
type RSAOAEP struct {
	bits int
}

func NewRSAOAEP(bits int) RSAOAEP {
	if bits <= 0 {
		bits = DefaultRSABits
	}
	return RSAOAEP{bits: bits}
}

func (RSAOAEP) Name() string { return SchemeRSAOAEP }

func (s RSAOAEP) MaxPlaintext() int {
	return s.bits/8 - 2*sha256.Size - 2
}

func (s RSAOAEP) GenerateKeyPair() (string, string, error) {
	key, err := rsa.GenerateKey(random(), s.bits)
	if err != nil {
		return "", "", fmt.Errorf("generate rsa key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return "", "", err
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", "", err
	}
	pub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	priv := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	return string(pub), string(priv), nil
}

func (s RSAOAEP) Encrypt(publicKey string, plaintext []byte) (string, error) {
	pub, err := parseRSAPublic(publicKey)
	if err != nil {
		return "", err
	}
	if limit := pub.Size() - 2*sha256.Size - 2; len(plaintext) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrPlaintextTooLarge, len(plaintext), limit)
	}
	out, err := rsa.EncryptOAEP(sha256.New(), random(), pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("rsa encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s RSAOAEP) Decrypt(privateKey, ciphertext string) ([]byte, error) {
	priv, err := parseRSAPrivate(privateKey)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	out, err := rsa.DecryptOAEP(sha256.New(), nil, priv, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return out, nil
}

func parseRSAPublic(encoded string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("%w: expected PEM public key", ErrInvalidKey)
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an rsa key", ErrInvalidKey)
	}
	return pub, nil
}

func parseRSAPrivate(encoded string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("%w: expected PEM private key", ErrInvalidKey)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an rsa key", ErrInvalidKey)
	}
	return priv, nil
}
