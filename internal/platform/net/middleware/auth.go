package middleware

import (
	"net/http"

	"outreach/internal/platform/logger"
	pnet "outreach/internal/platform/net"
)

// AuthPort resolves the calling worker from a request
type AuthPort interface {
	// Parse returns the worker id and display name or an error
	Parse(r *http.Request) (userID string, userName string, err error)
}

// Auth rejects requests the port cannot resolve. A nil port passes everything through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, name, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid, name)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
