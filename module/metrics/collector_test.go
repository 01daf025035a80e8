package metrics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestNoopCollectorDoesNotPanic exercises every method on the zero value;
// NoopCollector must be safe to use without any setup.
func TestNoopCollectorDoesNotPanic(t *testing.T) {
	var c NoopCollector
	c.InsertDuration(time.Second)
	c.RemoveDuration(time.Second)
	c.ProofDuration(time.Second)
	c.BackendRetried()
	c.CircuitBreakerTripped()
}

// TestLoggingCollectorDoesNotPanic exercises every method against a real
// zerolog.Logger; LoggingCollector has no other externally observable
// behavior worth asserting on.
func TestLoggingCollectorDoesNotPanic(t *testing.T) {
	c := NewLoggingCollector(zerolog.Nop())
	c.InsertDuration(time.Second)
	c.RemoveDuration(time.Second)
	c.ProofDuration(time.Second)
	c.BackendRetried()
	c.CircuitBreakerTripped()
}
