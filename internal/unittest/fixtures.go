// Package unittest provides small fixture helpers for tests across this
// module, in the spirit of flow-go's utils/unittest fixture package.
package unittest

import (
	"crypto/rand"

	"github.com/dapperwick/bitsmt/storage/merkle"
)

// HashFixture returns a cryptographically random Hash, suitable as a
// random key or leaf value in tests.
func HashFixture() merkle.Hash {
	var h merkle.Hash
	if _, err := rand.Read(h[:]); err != nil {
		panic(err)
	}
	return h
}

// HashFixtures returns n distinct random Hashes. Collisions are
// astronomically unlikely at HashLen=32, so no dedup pass is performed.
func HashFixtures(n int) []merkle.Hash {
	out := make([]merkle.Hash, n)
	for i := range out {
		out[i] = HashFixture()
	}
	return out
}
