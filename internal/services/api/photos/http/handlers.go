// Package http provides multipart transport for photo uploads
package http

import (
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"outreach/internal/modkit/httpkit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/services/api/photos/domain"
)

// formOverhead is allowed on top of the photo for the other form fields
const formOverhead = 64 << 10

// Register mounts the photo routes. maxBytes bounds the photo part
func Register(r httpkit.Router, s domain.ServicePort, maxBytes int64) {
	h := &handlers{svc: s, maxBytes: maxBytes}
	httpkit.Post(r, "/upload", h.upload)
	httpkit.Put(r, "/update/{individual_id}", h.update)
}

type handlers struct {
	svc      domain.ServicePort
	maxBytes int64
}

func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	in, err := h.parse(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Upload(r.Context(), uid, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) update(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	in, err := h.parse(r)
	if err != nil {
		return nil, err
	}
	in.IndividualID = httpkit.Param(r, "individual_id")
	return h.svc.Replace(r.Context(), uid, in)
}

func (h *handlers) parse(r *stdhttp.Request) (domain.Upload, error) {
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.maxBytes+formOverhead)
	if err := r.ParseMultipartForm(h.maxBytes + formOverhead); err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return domain.Upload{}, perr.TooLargef("photo exceeds %d bytes", h.maxBytes)
		}
		return domain.Upload{}, perr.Validation("expected a multipart form",
			perr.FieldIssue{Field: "photo", Message: "expected a multipart form"})
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("photo")
	if err != nil {
		return domain.Upload{}, perr.Validation("photo is required", perr.FieldIssue{Field: "photo", Message: "is required"})
	}
	defer f.Close()
	if hdr.Size > h.maxBytes {
		return domain.Upload{}, perr.TooLargef("photo exceeds %d bytes", h.maxBytes)
	}
	body, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return domain.Upload{}, perr.Validation("photo could not be read", perr.FieldIssue{Field: "photo", Message: "could not be read"})
	}

	var loc domain.ConsentLocation
	raw := strings.TrimSpace(r.FormValue("consent_location"))
	if raw == "" {
		return domain.Upload{}, perr.Validation("consent_location is required",
			perr.FieldIssue{Field: "consent_location", Message: "is required"})
	}
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return domain.Upload{}, perr.Validation("consent_location must be a JSON object",
			perr.FieldIssue{Field: "consent_location", Message: "must be a JSON object"})
	}

	return domain.Upload{
		IndividualID: strings.TrimSpace(r.FormValue("individual_id")),
		Consent:      loc,
		DeclaredType: hdr.Header.Get("Content-Type"),
		Body:         body,
	}, nil
}
