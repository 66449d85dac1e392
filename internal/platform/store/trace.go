package store

import (
	"strings"
	"time"

	"outreach/internal/platform/logger"

	"github.com/rs/zerolog"
)

// tracer logs one line per statement. Bind values are never logged, only
// their count, so addresses and names stay out of the logs
type tracer struct {
	log  logger.Logger
	slow time.Duration
}

// newTracer pins the logger to debug so LOG_SQL works whatever the root level is
func newTracer(root logger.Logger, slow time.Duration) *tracer {
	return &tracer{
		log:  root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
	}
}

// observe is a no-op on a nil tracer
func (t *tracer) observe(sql string, nargs int, start time.Time, err error) {
	if t == nil {
		return
	}
	elapsed := time.Since(start)
	slow := t.slow > 0 && elapsed >= t.slow

	evt := t.log.Info()
	if slow {
		evt = t.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Bool("slow", slow).
		Str("sql", strings.Join(strings.Fields(sql), " ")).
		Int("nargs", nargs).
		Err(err).
		Msg("pg query")
}
