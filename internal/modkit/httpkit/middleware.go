package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"outreach/internal/platform/metrics"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/platform/net/middleware"
)

// CommonStack is the middleware every /api/v1 route runs, outermost first.
// Recovery sits inside request ids so a panic reply still carries one
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),
		metrics.Registry.Middleware,
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		// ingest chains a download, speech to text and several llm calls
		middleware.Timeout(150 * time.Second),
	}
}

// Auth answers auth failures through the envelope writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
