package metrics

import (
	"time"

	"github.com/rs/zerolog"
)

// LoggingCollector reports every observation as a structured zerolog event,
// the way the teacher's own engines log decision points (cache hit/miss,
// circuit open, retry attempt) rather than exporting to a metrics backend.
type LoggingCollector struct {
	log zerolog.Logger
}

var _ Collector = LoggingCollector{}

// NewLoggingCollector returns a Collector that logs every observation
// through log: circuit breaker trips at warn level, everything else at
// debug level.
func NewLoggingCollector(log zerolog.Logger) LoggingCollector {
	return LoggingCollector{log: log.With().Str("component", "metrics").Logger()}
}

func (c LoggingCollector) InsertDuration(d time.Duration) {
	c.log.Debug().Dur("duration", d).Msg("insert")
}

func (c LoggingCollector) RemoveDuration(d time.Duration) {
	c.log.Debug().Dur("duration", d).Msg("remove")
}

func (c LoggingCollector) ProofDuration(d time.Duration) {
	c.log.Debug().Dur("duration", d).Msg("proof")
}

func (c LoggingCollector) BackendRetried() {
	c.log.Debug().Msg("backend retried")
}

func (c LoggingCollector) CircuitBreakerTripped() {
	c.log.Warn().Msg("circuit breaker tripped")
}
