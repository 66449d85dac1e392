// Package http provides JSON transport for voice note ingest
package http

import (
	stdhttp "net/http"

	"outreach/internal/modkit/httpkit"
	"outreach/internal/services/api/transcribe/domain"
)

// Register mounts the ingest route
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.Input](r, "/", h.ingest)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) ingest(r *stdhttp.Request, in domain.Input) (any, error) {
	if _, err := httpkit.User(r); err != nil {
		return nil, err
	}
	return h.svc.Ingest(r.Context(), in)
}
