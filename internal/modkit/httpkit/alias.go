// Package httpkit is the http surface modules register routes through
// modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "outreach/internal/platform/net/http"
	"outreach/internal/platform/net/http/bind"
)

type (
	// Envelope is the body every route answers with
	Envelope = phttp.Envelope

	// Response carries a status and body back to the writer
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// Created answers 201 with data
func Created(data any) Response { return phttp.Created(data) }

// List answers 200 with items and pagination
func List(items any, total, limit, offset int) Response {
	return phttp.List(items, total, limit, offset)
}

// JSON decodes and validates the body into T before calling fn
// fn may return a Response to pick a status other than 200
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// Call wraps fn in the envelope and leaves the body for fn to read
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
