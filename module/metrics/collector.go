// Package metrics defines the metrics surface the tree engine and its
// storage backends report through, in the same narrow-interface-plus-noop
// style as flow-go's module.ConsensusMetrics family.
package metrics

import "time"

// Collector is the set of observations the merkle tree engine and its
// backends emit. Implementations are expected to be safe for concurrent
// use; the tree engine itself is single-writer, but a Collector may be
// shared across several trees (e.g. one per shard) from different
// goroutines.
type Collector interface {
	// InsertDuration records the wall-clock time a single Insert took.
	InsertDuration(d time.Duration)
	// RemoveDuration records the wall-clock time a single Remove took.
	RemoveDuration(d time.Duration)
	// ProofDuration records the wall-clock time a GetMerkleProof call took.
	ProofDuration(d time.Duration)
	// BackendRetried is called every time a resilience-wrapped backend
	// retries a failed Get/Put.
	BackendRetried()
	// CircuitBreakerTripped is called when a circuit-breaker-wrapped
	// backend trips open after too many consecutive failures.
	CircuitBreakerTripped()
}

// NoopCollector implements Collector with no-ops. It is the Collector a
// Tree uses when none is supplied.
type NoopCollector struct{}

var _ Collector = NoopCollector{}

func (NoopCollector) InsertDuration(time.Duration)  {}
func (NoopCollector) RemoveDuration(time.Duration)  {}
func (NoopCollector) ProofDuration(time.Duration)   {}
func (NoopCollector) BackendRetried()               {}
func (NoopCollector) CircuitBreakerTripped()         {}
