package badgerstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dapperwick/bitsmt/storage/badgerstore"
	"github.com/dapperwick/bitsmt/storage/merkle"
)

func openStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestStorePutGet(t *testing.T) {
	store := openStore(t)
	key := merkle.SliceToHash(make([]byte, merkle.HashLen))
	value := []byte("serialized node bytes")

	require.NoError(t, store.Put(key, value))
	got, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, value, got)
}

func TestStoreGetMissing(t *testing.T) {
	store := openStore(t)
	key := merkle.SliceToHash(make([]byte, merkle.HashLen))
	_, ok, err := store.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	store := openStore(t)
	key := merkle.SliceToHash(make([]byte, merkle.HashLen))
	require.NoError(t, store.Put(key, []byte("x")))
	require.NoError(t, store.Delete(key))

	_, ok, err := store.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreBatchWritesApplyOnFlush(t *testing.T) {
	store := openStore(t)
	var key merkle.Hash
	key[0] = 0x01

	require.NoError(t, store.InitBatch())
	require.NoError(t, store.Put(key, []byte("batched")))
	require.NoError(t, store.FinishBatch())

	got, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("batched"), got)
}

func TestStoreDrivesTreeInsertAndGet(t *testing.T) {
	store := openStore(t)
	tree := merkle.NewTree(store, merkle.NewBlake2bHasher())

	key := merkle.SliceToHash(make([]byte, merkle.HashLen))
	leaf := merkle.SliceToHash(append(make([]byte, merkle.HashLen-1), 0xAA))

	root, err := tree.Insert(nil, key, leaf)
	require.NoError(t, err)

	got, ok, err := tree.Get(root, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, leaf, got)
}
