package module

import (
	"time"

	"outreach/internal/adapters/objectstore"
	"outreach/internal/platform/config"
)

// Options controls the ingest pipeline
type Options struct {
	FetchTimeout time.Duration
	FetchLimit   int64
	Parallel     int
	Threshold    int
}

// FromConfig reads CORE_TRANSCRIBE_* values
func FromConfig(cfg config.Conf) Options {
	tc := cfg.Prefix("CORE_TRANSCRIBE_")
	return Options{
		FetchTimeout: tc.MayDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchLimit:   int64(tc.MayInt("FETCH_LIMIT", objectstore.DefaultFetchLimit)),
		Parallel:     tc.MayInt("MATCH_PARALLEL", 4),
		Threshold:    tc.MayInt("MATCH_THRESHOLD", 30),
	}
}
