package module

import (
	"time"

	"outreach/internal/platform/config"
)

// Options controls search
type Options struct {
	FiltersTTL time.Duration
	// SharedFilters stores filter options in redis when it is configured
	SharedFilters bool
}

// FromConfig reads CORE_SEARCH_* values
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_SEARCH_")
	return Options{
		FiltersTTL:    sc.MayDuration("FILTERS_TTL", time.Hour),
		SharedFilters: sc.MayBool("FILTERS_SHARED", true),
	}
}
