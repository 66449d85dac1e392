package httpkit

import (
	"net/http"
	"strings"

	perrs "outreach/internal/platform/errors"
)

// TokenFunc verifies a bearer token and returns the worker id and display name
// name may be empty when the token carries none
type TokenFunc func(token string) (userID string, userName string, err error)

// Port adapts a TokenFunc to middleware.AuthPort
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port around fn
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse reads the Authorization header; every failure is the same 401
// so clients cannot tell a bad signature from a bad header
func (p *Port) Parse(r *http.Request) (string, string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, name, err := p.parse(raw)
	if err != nil || uid == "" {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, name, nil
}
