package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dapperwick/bitsmt/module/metrics"
	"github.com/dapperwick/bitsmt/storage/merkle"
)

// RetryConfig configures RetryBackend's exponential backoff, mirroring the
// fields the execution data requester pulls its own backoff.Config from.
type RetryConfig struct {
	// Enabled toggles retrying. When false, NewRetryBackend returns backend
	// unwrapped.
	Enabled bool
	// BaseDelay is the initial backoff passed to retry.NewExponential.
	BaseDelay time.Duration
	// MaxDelay caps the exponential growth via retry.WithCappedDuration.
	MaxDelay time.Duration
	// MaxRetries bounds the number of retries after the first attempt via
	// retry.WithMaxRetries. A value of 0 means unbounded (retries forever, as the execution data
	// requester does).
	MaxRetries uint64
}

// retryBackend wraps a merkle.Backend's Get/Put calls with exponential
// backoff retry, the same retry.Do/NewExponential/WithCappedDuration/
// WithJitterPercent pipeline the execution data requester builds around its
// own fetches.
type retryBackend struct {
	merkle.Backend
	cfg     RetryConfig
	metrics metrics.Collector
}

// NewRetryBackend wraps backend with retry-on-error per cfg. If cfg.Enabled
// is false, backend is returned unwrapped.
func NewRetryBackend(backend merkle.Backend, cfg RetryConfig, collector metrics.Collector) merkle.Backend {
	if !cfg.Enabled {
		return backend
	}
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &retryBackend{Backend: backend, cfg: cfg, metrics: collector}
}

func (b *retryBackend) newBackoff() (retry.Backoff, error) {
	backoff, err := retry.NewExponential(b.cfg.BaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry mechanism: %w", err)
	}
	backoff = retry.WithCappedDuration(b.cfg.MaxDelay, backoff)
	backoff = retry.WithJitterPercent(15, backoff)
	if b.cfg.MaxRetries > 0 {
		backoff = retry.WithMaxRetries(b.cfg.MaxRetries, backoff)
	}
	return backoff, nil
}

func (b *retryBackend) Get(key merkle.Hash) ([]byte, bool, error) {
	backoff, err := b.newBackoff()
	if err != nil {
		return nil, false, err
	}
	var value []byte
	var ok bool
	attempt := 0
	err = retry.Do(context.Background(), backoff, func(context.Context) error {
		var innerErr error
		value, ok, innerErr = b.Backend.Get(key)
		if attempt > 0 {
			b.metrics.BackendRetried()
		}
		attempt++
		return retry.RetryableError(innerErr)
	})
	if err != nil {
		return nil, false, err
	}
	return value, ok, nil
}

func (b *retryBackend) Put(key merkle.Hash, value []byte) error {
	backoff, err := b.newBackoff()
	if err != nil {
		return err
	}
	attempt := 0
	return retry.Do(context.Background(), backoff, func(context.Context) error {
		innerErr := b.Backend.Put(key, value)
		if attempt > 0 {
			b.metrics.BackendRetried()
		}
		attempt++
		return retry.RetryableError(innerErr)
	})
}
