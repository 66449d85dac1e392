package module

import (
	"time"

	"outreach/internal/platform/config"
)

// Options controls the category registry
type Options struct {
	TTL time.Duration
	// SeedOnStart inserts missing presets when the module is built
	SeedOnStart bool
}

// FromConfig reads CORE_CATEGORIES_* values
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CORE_CATEGORIES_")
	return Options{
		TTL:         cc.MayDuration("TTL", 5*time.Minute),
		SeedOnStart: cc.MayBool("SEED", false),
	}
}
