package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dapperwick/bitsmt/module/metrics"
	"github.com/dapperwick/bitsmt/resilience"
	"github.com/dapperwick/bitsmt/storage/merkle"
)

// flakyBackend fails the first n calls to Get/Put, then succeeds.
type flakyBackend struct {
	merkle.Backend
	failuresLeft int
}

var errTransient = errors.New("transient failure")

func (b *flakyBackend) Get(key merkle.Hash) ([]byte, bool, error) {
	if b.failuresLeft > 0 {
		b.failuresLeft--
		return nil, false, errTransient
	}
	return b.Backend.Get(key)
}

func (b *flakyBackend) Put(key merkle.Hash, value []byte) error {
	if b.failuresLeft > 0 {
		b.failuresLeft--
		return errTransient
	}
	return b.Backend.Put(key, value)
}

func TestRetryDisabledPassesThrough(t *testing.T) {
	inner := merkle.NewMemoryBackend()
	wrapped := resilience.NewRetryBackend(inner, resilience.RetryConfig{Enabled: false}, nil)
	require.Same(t, inner, wrapped)
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	inner := &flakyBackend{Backend: merkle.NewMemoryBackend(), failuresLeft: 2}
	cfg := resilience.RetryConfig{
		Enabled:   true,
		BaseDelay: time.Millisecond,
		MaxDelay:  10 * time.Millisecond,
	}
	collector := &countingCollector{}
	wrapped := resilience.NewRetryBackend(inner, cfg, collector)

	key := merkle.SliceToHash(make([]byte, merkle.HashLen))
	require.NoError(t, wrapped.Put(key, []byte("x")))

	got, ok, err := wrapped.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("x"), got)
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	inner := &flakyBackend{Backend: merkle.NewMemoryBackend(), failuresLeft: 100}
	cfg := resilience.RetryConfig{
		Enabled:    true,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		MaxRetries: 2,
	}
	wrapped := resilience.NewRetryBackend(inner, cfg, metrics.NoopCollector{})

	_, _, err := wrapped.Get(merkle.Hash{})
	require.Error(t, err)
}
