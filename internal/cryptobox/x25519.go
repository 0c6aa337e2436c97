package cryptobox

import (
	"fmt"

	"golang.org/x/crypto/curve25519"
)

func publicFromPrivate(priv *[32]byte) (*[32]byte, error) {
	raw, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	var pub [32]byte
	copy(pub[:], raw)
	return &pub, nil
}
