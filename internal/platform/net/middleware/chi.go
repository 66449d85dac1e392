// Package middleware holds the http middleware the api stack runs. Modules
// get chi's through here and never import chi/middleware themselves
package middleware

import (
	"net/http"
	"time"

	pstrings "outreach/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

type mw = func(http.Handler) http.Handler

// RequestID keeps an inbound X-Request-Id or mints one
func RequestID() mw { return chimw.RequestID }

// RealIP rewrites RemoteAddr from X-Forwarded-For or X-Real-IP. The api only
// runs behind the platform load balancer
func RealIP() mw { return chimw.RealIP }

func Timeout(d time.Duration) mw { return chimw.Timeout(d) }

func NoCache() mw { return chimw.NoCache }

func Compress(level int) mw { return chimw.NewCompressor(level).Handler }

// StripSlashes routes /individuals/ as /individuals instead of redirecting,
// so a POST body is never dropped
func StripSlashes() mw { return chimw.StripSlashes }

// Heartbeat answers GET path before any routing or auth
func Heartbeat(path string) mw { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors the api sets
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS fills unset methods and headers with what the field app sends
func CORS(o CORSOptions) mw {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "PUT", "OPTIONS"}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
