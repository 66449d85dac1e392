// Package http is the envelope, router and server every api route goes through
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	pnet "outreach/internal/platform/net"
)

// Envelope is the body of every api response
type Envelope struct {
	StatusCode int               `json:"status_code"`
	Status     string            `json:"status"`
	Code       perr.ErrorCode    `json:"code,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     []perr.FieldIssue `json:"fields,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Data       any               `json:"data,omitempty"`
	Page       *Page             `json:"page,omitempty"`
}

// Page is offset pagination metadata
type Page struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return style handlers hand back
// an error Body picks its own status
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response returning func to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	if err, ok := resp.Body.(error); ok && err != nil {
		status, wire := pnet.Error(err, reqID)
		// the client gets the coarse wire message, the log keeps the cause
		if status >= stdhttp.StatusInternalServerError {
			logger.C(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
		}
		JSON(w, status, Envelope{
			StatusCode: status,
			Status:     wire.Status,
			Code:       wire.Code,
			Error:      wire.Error,
			Fields:     wire.Fields,
			RequestID:  reqID,
		})
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	JSON(w, status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  reqID,
		Data:       resp.Body,
	})
}

// OK answers 200 with data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created answers 201 with data
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// Error answers with the status err maps to
func Error(err error) Response { return Response{Body: err} }

// RespondError writes err's envelope, for handlers that stream their own
// success body
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	Error(err).write(w, r)
}

// List answers 200 with items and their page
func List(items any, total, limit, offset int) Response {
	return OK(struct {
		Items any  `json:"items"`
		Page  Page `json:"page"`
	}{Items: items, Page: Page{Total: total, Limit: limit, Offset: offset}})
}
