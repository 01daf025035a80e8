package mock_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dapperwick/bitsmt/storage/merkle"
	merklemock "github.com/dapperwick/bitsmt/storage/merkle/mock"
)

func TestHasherMockSatisfiesInterface(t *testing.T) {
	h := merklemock.NewHasher(t)
	want := merkle.Hash{0xAB}
	h.On("Digest", mock.Anything).Return(want)

	got := h.Digest([]byte("anything"))
	require.Equal(t, want, got)
}

func TestBackendMockDrivesTreeInsert(t *testing.T) {
	backend := merklemock.NewBackend(t)
	backend.On("Get", mock.Anything).Return(nil, false, nil).Maybe()
	backend.On("Put", mock.Anything, mock.Anything).Return(nil)

	tree := merkle.NewTree(backend, merkle.NewBlake2bHasher())

	key := merkle.SliceToHash(make([]byte, merkle.HashLen))
	leaf := merkle.SliceToHash(make([]byte, merkle.HashLen))
	root, err := tree.Insert(nil, key, leaf)
	require.NoError(t, err)
	require.NotNil(t, root)
}
