// Package http provides http transport for individuals
package http

import (
	stdhttp "net/http"

	"outreach/internal/modkit/httpkit"
	"outreach/internal/services/api/individuals/domain"
)

// Register mounts the individual routes. List and search live with the search module
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.SaveInput](r, "/", h.save)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PutJSON[domain.OverrideInput](r, "/{id}/urgency-override", h.override)
	httpkit.Get(r, "/{id}/interactions", h.interactions)
}

type handlers struct{ svc domain.ServicePort }

func user(r *stdhttp.Request) (domain.User, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: uid, Name: httpkit.UserName(r)}, nil
}

func (h *handlers) save(r *stdhttp.Request, in domain.SaveInput) (any, error) {
	u, err := user(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Save(r.Context(), u, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) override(r *stdhttp.Request, in domain.OverrideInput) (any, error) {
	return h.svc.SetOverride(r.Context(), httpkit.Param(r, "id"), in.UrgencyOverride)
}

func (h *handlers) interactions(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit", domain.InteractionsDefaultLimit)
	if err != nil {
		return nil, err
	}
	offset, err := httpkit.QueryInt(r, "offset", 0)
	if err != nil {
		return nil, err
	}
	items, total, err := h.svc.Interactions(r.Context(), httpkit.Param(r, "id"), limit, offset)
	if err != nil {
		return nil, err
	}
	return httpkit.List(items, total, limit, offset), nil
}
