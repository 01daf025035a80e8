package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedHash(b byte) Hash {
	var h Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestNewNodeBothAbsentPanics(t *testing.T) {
	require.Panics(t, func() {
		NewNode(noCell, noCell)
	})
}

func TestSoftNodeRoundTrip(t *testing.T) {
	key := make([]byte, HashLen)
	key[0] = 0x0F
	u := Unit{Hash: fixedHash(0xAB), Bits: NewPath(key)}
	n := NewNode(someCell(u), noCell)
	require.True(t, n.IsSoft())

	raw := n.ToBytes()
	decoded, err := NodeFromBytes(raw)
	require.NoError(t, err)
	require.True(t, decoded.IsSoft())

	left, right := decoded.Cells()
	require.True(t, left.Present)
	require.False(t, right.Present)
	require.Equal(t, u.Hash, left.Unit.Hash)
	require.Equal(t, u.Bits.Len(), left.Unit.Bits.Len())
}

func TestHardNodeCanonicalOrdering(t *testing.T) {
	zeroKey := make([]byte, HashLen) // first bit 0
	oneKey := make([]byte, HashLen)
	oneKey[0] = 0x80 // first bit 1

	lu := Unit{Hash: fixedHash(0x01), Bits: NewPath(zeroKey)}
	ru := Unit{Hash: fixedHash(0x02), Bits: NewPath(oneKey)}

	// build with the two cells swapped; ToBytes must still reorder to
	// 0-side-first so the encoding is identical either way.
	nSwapped := NewNode(someCell(ru), someCell(lu))
	nOrdered := NewNode(someCell(lu), someCell(ru))

	require.Equal(t, nOrdered.ToBytes(), nSwapped.ToBytes())
}

func TestHardNodeRoundTrip(t *testing.T) {
	zeroKey := make([]byte, HashLen)
	oneKey := make([]byte, HashLen)
	oneKey[0] = 0x40 // bit 1 set: after Shift(1, false) the path starts with 1

	lu := Unit{Hash: fixedHash(0x11), Bits: NewPath(zeroKey).Shift(1, false)}
	ru := Unit{Hash: fixedHash(0x22), Bits: NewPath(oneKey).Shift(1, false)}
	n := NewNode(someCell(lu), someCell(ru))
	require.False(t, n.IsSoft())

	raw := n.ToBytes()
	decoded, err := NodeFromBytes(raw)
	require.NoError(t, err)
	require.False(t, decoded.IsSoft())

	left, right := decoded.Cells()
	require.True(t, left.Present && right.Present)
	require.False(t, left.Unit.Bits.First())
	require.True(t, right.Unit.Bits.First())
	require.Equal(t, lu.Hash, left.Unit.Hash)
	require.Equal(t, ru.Hash, right.Unit.Hash)
}

func TestCellsFromBytesSoftIgnoresDirection(t *testing.T) {
	key := make([]byte, HashLen)
	u := Unit{Hash: fixedHash(0x33), Bits: NewPath(key)}
	raw := NewNode(someCell(u), noCell).ToBytes()

	matched, other, err := CellsFromBytes(raw, true)
	require.NoError(t, err)
	require.True(t, matched.Present)
	require.False(t, other.Present)

	matched, other, err = CellsFromBytes(raw, false)
	require.NoError(t, err)
	require.True(t, matched.Present)
	require.False(t, other.Present)
}

func TestCellsFromBytesHardMatchesDirection(t *testing.T) {
	zeroKey := make([]byte, HashLen)
	oneKey := make([]byte, HashLen)
	oneKey[0] = 0x80

	lu := Unit{Hash: fixedHash(0x44), Bits: NewPath(zeroKey)}
	ru := Unit{Hash: fixedHash(0x55), Bits: NewPath(oneKey)}
	raw := NewNode(someCell(lu), someCell(ru)).ToBytes()

	matched, other, err := CellsFromBytes(raw, true)
	require.NoError(t, err)
	require.Equal(t, ru.Hash, matched.Unit.Hash)
	require.Equal(t, lu.Hash, other.Unit.Hash)

	matched, other, err = CellsFromBytes(raw, false)
	require.NoError(t, err)
	require.Equal(t, lu.Hash, matched.Unit.Hash)
	require.Equal(t, ru.Hash, other.Unit.Hash)
}

func TestNodeFromBytesRejectsUnknownTag(t *testing.T) {
	raw := make([]byte, HashLen+2*pathLenBytes+1)
	raw[len(raw)-1] = 0x42
	_, err := NodeFromBytes(raw)
	require.ErrorIs(t, err, ErrDecode)
}

func TestNodeFromBytesRejectsEmpty(t *testing.T) {
	_, err := NodeFromBytes(nil)
	require.ErrorIs(t, err, ErrDecode)
}
