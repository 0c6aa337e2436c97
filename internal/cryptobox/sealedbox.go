package cryptobox

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// SealedBox seals messages with an ephemeral X25519 sender key
// (crypto_box_seal). Keys and ciphertexts are base64.
type SealedBox struct{}

func (SealedBox) Name() string { return SchemeSealedBox }

func (SealedBox) MaxPlaintext() int { return 0 }

func (SealedBox) GenerateKeyPair() (string, string, error) {
	pub, priv, err := box.GenerateKey(random())
	if err != nil {
		return "", "", fmt.Errorf("generate x25519 key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(pub[:]), base64.StdEncoding.EncodeToString(priv[:]), nil
}

func (SealedBox) Encrypt(publicKey string, plaintext []byte) (string, error) {
	pub, err := decodeKey32(publicKey)
	if err != nil {
		return "", err
	}
	out, err := box.SealAnonymous(nil, plaintext, pub, random())
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt needs the public half too; it is recomputed from the private key.
func (SealedBox) Decrypt(privateKey, ciphertext string) ([]byte, error) {
	priv, err := decodeKey32(privateKey)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	pub, err := publicFromPrivate(priv)
	if err != nil {
		return nil, err
	}
	out, ok := box.OpenAnonymous(nil, raw, pub, priv)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return out, nil
}

func decodeKey32(encoded string) (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("%w: expected 32-byte base64 key", ErrInvalidKey)
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}
