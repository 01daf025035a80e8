package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyTreeGetMisses(t *testing.T) {
	tree := NewDefaultTree()
	_, ok, err := tree.Get(nil, fixedHash(0x01))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInsertGetSingleKey(t *testing.T) {
	tree := NewDefaultTree()
	key, leaf := fixedHash(0x01), fixedHash(0xAA)

	root, err := tree.Insert(nil, key, leaf)
	require.NoError(t, err)
	require.NotNil(t, root)

	got, ok, err := tree.Get(root, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, leaf, got)
}

func TestInsertGetDisjointKeys(t *testing.T) {
	tree := NewDefaultTree()
	keys := []Hash{fixedHash(0x01), fixedHash(0x02), fixedHash(0x03), fixedHash(0xFE)}
	leaves := []Hash{fixedHash(0x11), fixedHash(0x22), fixedHash(0x33), fixedHash(0xEE)}

	var root *Hash
	var err error
	for i := range keys {
		root, err = tree.Insert(root, keys[i], leaves[i])
		require.NoError(t, err)
	}

	for i := range keys {
		got, ok, err := tree.Get(root, keys[i])
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, leaves[i], got)
	}

	_, ok, err := tree.Get(root, fixedHash(0x99))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateExistingKeyReplacesLeaf(t *testing.T) {
	tree := NewDefaultTree()
	key := fixedHash(0x01)

	root, err := tree.Insert(nil, key, fixedHash(0xAA))
	require.NoError(t, err)
	root, err = tree.Insert(root, key, fixedHash(0xBB))
	require.NoError(t, err)

	got, ok, err := tree.Get(root, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fixedHash(0xBB), got)
}

func TestRemoveThenGetMisses(t *testing.T) {
	tree := NewDefaultTree()
	key := fixedHash(0x01)

	root, err := tree.Insert(nil, key, fixedHash(0xAA))
	require.NoError(t, err)
	root, err = tree.Remove(root, key)
	require.NoError(t, err)
	require.Nil(t, root)

	_, ok, err := tree.Get(root, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveAbsentKeyReturnsUnchangedRoot(t *testing.T) {
	tree := NewDefaultTree()
	key, other := fixedHash(0x01), fixedHash(0x02)

	root, err := tree.Insert(nil, key, fixedHash(0xAA))
	require.NoError(t, err)

	newRoot, err := tree.Remove(root, other)
	require.NoError(t, err)
	require.Equal(t, *root, *newRoot)
}

func TestRemoveFromEmptyTreeReturnsNil(t *testing.T) {
	tree := NewDefaultTree()
	root, err := tree.Remove(nil, fixedHash(0x01))
	require.NoError(t, err)
	require.Nil(t, root)
}

// TestRemoveCollapsesSoftUnderSoft covers removing one of two keys that
// share a one-bit common prefix, split into a Hard node under a
// compressing Soft parent; removing the second key must collapse the
// resulting Soft-under-Soft shape back down to the same single Soft node
// a lone insert of the first key would have produced — not just an
// equivalent tree, but a byte-for-byte identical root, since content
// addressing makes "equivalent but differently shaped" indistinguishable
// from "wrong".
func TestRemoveCollapsesSoftUnderSoft(t *testing.T) {
	tree := NewDefaultTree()
	var keyA, keyB Hash // keyA all-zero, keyB shares bit 0 (=0) but differs at bit 1
	keyB[0] = 0x40
	leafA, leafB := fixedHash(0xAA), fixedHash(0xBB)

	rootAlone, err := tree.Insert(nil, keyA, leafA)
	require.NoError(t, err)

	rootBoth, err := tree.Insert(rootAlone, keyB, leafB)
	require.NoError(t, err)
	require.NotEqual(t, *rootAlone, *rootBoth)

	rootAfterRemove, err := tree.Remove(rootBoth, keyB)
	require.NoError(t, err)
	require.NotNil(t, rootAfterRemove)
	require.Equal(t, *rootAlone, *rootAfterRemove)

	got, ok, err := tree.Get(rootAfterRemove, keyA)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, leafA, got)

	_, ok, err = tree.Get(rootAfterRemove, keyB)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveSetAsideSplitCollapses(t *testing.T) {
	// keyA and keyB differ at bit 0: no compressing Soft parent is created
	// at all (the set-aside case goes straight to a Hard root), so removing
	// keyB should leave a Soft(leafA) root with the full-length path.
	tree := NewDefaultTree()
	var keyA, keyB Hash
	keyB[0] = 0x80
	leafA, leafB := fixedHash(0xAA), fixedHash(0xBB)

	rootAlone, err := tree.Insert(nil, keyA, leafA)
	require.NoError(t, err)

	rootBoth, err := tree.Insert(rootAlone, keyB, leafB)
	require.NoError(t, err)

	rootAfterRemove, err := tree.Remove(rootBoth, keyB)
	require.NoError(t, err)
	require.Equal(t, *rootAlone, *rootAfterRemove)
}

