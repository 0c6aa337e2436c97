// Package cryptobox implements the asymmetric schemes used to encrypt messages
// at rest under the recipient's public key.
//
// Both halves of every key pair are persisted by the server. The schemes give
// at-rest confidentiality against a leaked store only.
package cryptobox

import "fmt"

const (
	SchemeRSAOAEP   = "rsa-oaep-sha256"
	SchemeSealedBox = "x25519-sealedbox"
)

// Scheme encodes keys and ciphertexts as text so they can be stored in plain
// columns and shipped in JSON.
type Scheme interface {
	Name() string
	GenerateKeyPair() (publicKey, privateKey string, err error)
	Encrypt(publicKey string, plaintext []byte) (string, error)
	Decrypt(privateKey, ciphertext string) ([]byte, error)
	// MaxPlaintext is the largest message the scheme accepts, 0 when unbounded.
	MaxPlaintext() int
}

// Registry resolves schemes by name. Messages record the scheme they were
// sealed with, so every scheme ever configured must stay resolvable.
type Registry struct {
	schemes map[string]Scheme
	def     string
}

func NewRegistry(defaultScheme string) (*Registry, error) {
	r := &Registry{schemes: map[string]Scheme{}}
	r.Register(NewRSAOAEP(DefaultRSABits))
	r.Register(SealedBox{})
	if _, ok := r.schemes[defaultScheme]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, defaultScheme)
	}
	r.def = defaultScheme
	return r, nil
}

func (r *Registry) Register(s Scheme) { r.schemes[s.Name()] = s }

func (r *Registry) Default() Scheme { return r.schemes[r.def] }

func (r *Registry) Lookup(name string) (Scheme, error) {
	s, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return s, nil
}
