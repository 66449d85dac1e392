// Package http provides http transport for search
package http

import (
	stdhttp "net/http"

	"outreach/internal/modkit/httpkit"
	"outreach/internal/services/api/search/domain"
)

// Register mounts the search routes
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/filters", h.filters)
}

// RegisterIndividuals mounts the list and advanced search routes under the individuals prefix
func RegisterIndividuals(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.basic)
	httpkit.Get(r, "/search", h.advanced)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) filters(r *stdhttp.Request) (any, error) {
	return h.svc.Filters(r.Context()), nil
}

func (h *handlers) basic(r *stdhttp.Request) (any, error) {
	in, err := ParseBasic(r.URL.Query())
	if err != nil {
		return nil, err
	}
	items, total, err := h.svc.Basic(r.Context(), in)
	if err != nil {
		return nil, err
	}
	in.Defaults()
	return httpkit.List(items, total, in.Limit, in.Offset), nil
}

func (h *handlers) advanced(r *stdhttp.Request) (any, error) {
	q, err := ParseAdvanced(r.URL.Query())
	if err != nil {
		return nil, err
	}
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	items, total, err := h.svc.Advanced(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return httpkit.List(items, total, q.Limit, q.Offset), nil
}
