package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceToHash(t *testing.T) {
	b := make([]byte, HashLen)
	for i := range b {
		b[i] = byte(i)
	}
	h := SliceToHash(b)
	require.Equal(t, b, h[:])
}

func TestSliceToHashWrongLengthPanics(t *testing.T) {
	require.Panics(t, func() {
		SliceToHash([]byte{1, 2, 3})
	})
}

func TestBlake2bHasherDeterministic(t *testing.T) {
	h := NewBlake2bHasher()
	a := h.Digest([]byte("same input"))
	b := h.Digest([]byte("same input"))
	require.Equal(t, a, b)

	c := h.Digest([]byte("different input"))
	require.NotEqual(t, a, c)
}

func TestSHA3HasherDeterministic(t *testing.T) {
	h := NewSHA3Hasher()
	a := h.Digest([]byte("same input"))
	b := h.Digest([]byte("same input"))
	require.Equal(t, a, b)

	c := h.Digest([]byte("different input"))
	require.NotEqual(t, a, c)
}

func TestHashersDisagree(t *testing.T) {
	blake := NewBlake2bHasher()
	sha3 := NewSHA3Hasher()
	require.NotEqual(t, blake.Digest([]byte("x")), sha3.Digest([]byte("x")))
}
