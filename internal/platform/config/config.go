// Package config reads the api's settings from the environment
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"outreach/internal/platform/logger"
)

// Conf resolves keys under a prefix, so CORE_API_ + PORT reads CORE_API_PORT
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

// Prefix returns a Conf nested under p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value and whether it was set to anything
func (c Conf) lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(k)))
	return v, v != ""
}

// fallback warns that a set value could not be parsed. The value itself is
// left out because secrets share this path
func (c Conf) fallback(k, kind string) {
	logger.Get().Warn().Str("key", c.key(k)).Str("kind", kind).Msg("unparsable env, using default")
}

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// Require panics on the first blank key
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.MustString(k)
	}
}

func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

func (c Conf) MayInt(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.fallback(key, "int")
		return def
	}
	return n
}

func (c Conf) MayBool(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.fallback(key, "bool")
		return def
	}
	return b
}

// MayDuration takes Go duration syntax such as 250ms or 15s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.fallback(key, "duration")
		return def
	}
	return d
}

// MayEnum returns def when unset and panics when the value is not in allowed.
// Matching ignores case and the value comes back as written
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// Missing lists the fully qualified keys that are unset or blank
func (c Conf) Missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := c.lookup(k); !ok {
			out = append(out, c.key(k))
		}
	}
	return out
}

// RequireIf panics on a missing key when strict. Otherwise it warns for each
// one and hands them back so the caller can switch features off
func (c Conf) RequireIf(strict bool, keys ...string) []string {
	missing := c.Missing(keys...)
	for _, k := range missing {
		if strict {
			logger.Get().Panic().Str("key", k).Msg("missing required env")
		}
		logger.Get().Warn().Str("key", k).Msg("missing env; dependent endpoints disabled")
	}
	return missing
}
