package module

import (
	"time"

	"outreach/internal/platform/config"
)

// Options controls the photo pipeline
type Options struct {
	MaxBytes     int64
	MaxDimension int
	Quality      int
	Attempts     int
	RetryBase    time.Duration
}

// FromConfig reads CORE_PHOTOS_* values
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("CORE_PHOTOS_")
	return Options{
		MaxBytes:     int64(pc.MayInt("MAX_BYTES", 5<<20)),
		MaxDimension: pc.MayInt("MAX_DIMENSION", 2048),
		Quality:      pc.MayInt("JPEG_QUALITY", 85),
		Attempts:     pc.MayInt("UPLOAD_ATTEMPTS", 3),
		RetryBase:    pc.MayDuration("UPLOAD_RETRY_BASE", time.Second),
	}
}

// delays grows linearly from base: 1s then 2s by default
func (o Options) delays() []time.Duration {
	out := make([]time.Duration, 0, max(o.Attempts-1, 0))
	for i := 1; i < o.Attempts; i++ {
		out = append(out, time.Duration(i)*o.RetryBase)
	}
	return out
}
