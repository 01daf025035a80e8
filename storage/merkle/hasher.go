package merkle

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hash is an opaque, fixed-length digest. It is used interchangeably as a
// key, a leaf value, and the content address of a serialized node.
type Hash [HashLen]byte

// SliceToHash copies a byte slice into a Hash. It panics if b is not
// exactly HashLen bytes long — callers are expected to validate input
// length at the system boundary before reaching this helper.
func SliceToHash(b []byte) Hash {
	if len(b) != HashLen {
		panicInvariant("SliceToHash: wrong length")
	}
	var h Hash
	copy(h[:], b)
	return h
}

// Hasher computes a deterministic, fixed-length digest of an arbitrary byte
// buffer. Every tree built against one Hasher must be read back with the
// same one: the wire format does not record which hash function was used,
// so mixing hashers across a single tree is undefined behavior.
type Hasher interface {
	// Digest deterministically maps bytes to a HashLen-byte digest.
	Digest(bytes []byte) Hash
}

// Blake2bHasher is the default Hasher: keyless BLAKE2b-256, matching the
// hash function this package's teacher (flow-go's storage/merkle package)
// already uses for its trie nodes.
type Blake2bHasher struct{}

// NewBlake2bHasher returns a ready-to-use Blake2bHasher.
func NewBlake2bHasher() Blake2bHasher {
	return Blake2bHasher{}
}

// Digest implements Hasher.
func (Blake2bHasher) Digest(bytes []byte) Hash {
	return Hash(blake2b.Sum256(bytes))
}

// SHA3Hasher is an alternate Hasher using SHA3-256 (Keccak family), one of
// the interchangeable hash functions this tree's reference implementation
// (monotree) supports alongside BLAKE2.
type SHA3Hasher struct{}

// NewSHA3Hasher returns a ready-to-use SHA3Hasher.
func NewSHA3Hasher() SHA3Hasher {
	return SHA3Hasher{}
}

// Digest implements Hasher.
func (SHA3Hasher) Digest(bytes []byte) Hash {
	return Hash(sha3.Sum256(bytes))
}
