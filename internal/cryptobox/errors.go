package cryptobox

import "errors"

var (
	ErrUnknownScheme     = errors.New("cryptobox: unknown scheme")
	ErrInvalidKey        = errors.New("cryptobox: invalid key")
	ErrPlaintextTooLarge = errors.New("cryptobox: plaintext too large")
	ErrDecryptionFailed  = errors.New("cryptobox: decryption failed")
)
