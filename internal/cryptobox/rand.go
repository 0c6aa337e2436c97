package cryptobox

import (
	"crypto/rand"
	"io"
	"sync"
)

var (
	randMu        sync.RWMutex
	randomnessSrc io.Reader = rand.Reader
)

// UseRandom swaps the randomness source and returns a restore function.
// Tests use it to inject failing or deterministic readers.
func UseRandom(r io.Reader) func() {
	randMu.Lock()
	prev := randomnessSrc
	randomnessSrc = r
	randMu.Unlock()
	return func() {
		randMu.Lock()
		randomnessSrc = prev
		randMu.Unlock()
	}
}

func random() io.Reader {
	randMu.RLock()
	defer randMu.RUnlock()
	return randomnessSrc
}
