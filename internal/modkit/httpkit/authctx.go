package httpkit

import (
	"net/http"

	perrs "outreach/internal/platform/errors"
	pnet "outreach/internal/platform/net"
)

// User returns the worker id the auth middleware stored on the request
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

// UserName returns the worker display name, falling back to the user id
func UserName(r *http.Request) string {
	if n := pnet.UserName(r.Context()); n != "" {
		return n
	}
	return pnet.UserID(r.Context())
}
