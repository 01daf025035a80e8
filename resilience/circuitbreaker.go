// Package resilience wraps a merkle.Backend with the failure-handling
// middleware flow-go applies to its own remote collaborators: a circuit
// breaker around a flaky dependency (sony/gobreaker, the same package
// engine/access/rpc/connection.Manager wraps its gRPC clients with) and
// exponential-backoff retries (sethvargo/go-retry, the same package the
// execution data requester uses against its own fetches).
package resilience

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/dapperwick/bitsmt/module/metrics"
	"github.com/dapperwick/bitsmt/storage/merkle"
)

// CircuitBreakerConfig configures CircuitBreakerBackend, mirroring the
// shape of flow-go's connection.CircuitBreakerConfig.
type CircuitBreakerConfig struct {
	// Enabled toggles the breaker. When false, NewCircuitBreakerBackend
	// returns backend unwrapped.
	Enabled bool
	// RestoreTimeout is how long the breaker stays open before trying a
	// half-open probe request.
	RestoreTimeout time.Duration
	// MaxFailures is the number of consecutive failures that trips the
	// breaker open.
	MaxFailures uint32
	// MaxRequests is the number of probe requests allowed through while
	// half-open.
	MaxRequests uint32
}

// circuitBreakerBackend wraps a merkle.Backend's Get/Put calls in a
// gobreaker.CircuitBreaker. Delete/InitBatch/FinishBatch pass straight
// through: they are not on the tree's hot path and tripping the breaker on
// them would serve no purpose.
type circuitBreakerBackend struct {
	merkle.Backend
	breaker *gobreaker.CircuitBreaker
	metrics metrics.Collector
}

// NewCircuitBreakerBackend wraps backend with a circuit breaker per cfg. If
// cfg.Enabled is false, backend is returned unwrapped.
func NewCircuitBreakerBackend(backend merkle.Backend, cfg CircuitBreakerConfig, collector metrics.Collector) merkle.Backend {
	if !cfg.Enabled {
		return backend
	}
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Timeout: cfg.RestoreTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		MaxRequests: cfg.MaxRequests,
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				collector.CircuitBreakerTripped()
			}
		},
	})
	return &circuitBreakerBackend{Backend: backend, breaker: breaker, metrics: collector}
}

type getResult struct {
	value []byte
	ok    bool
}

func (b *circuitBreakerBackend) Get(key merkle.Hash) ([]byte, bool, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		value, ok, err := b.Backend.Get(key)
		if err != nil {
			return getResult{}, err
		}
		return getResult{value: value, ok: ok}, nil
	})
	if err != nil {
		return nil, false, err
	}
	out := res.(getResult)
	return out.value, out.ok, nil
}

func (b *circuitBreakerBackend) Put(key merkle.Hash, value []byte) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.Backend.Put(key, value)
	})
	return err
}
