package net

import (
	"net/http"

	perr "outreach/internal/platform/errors"
)

// Wire is the error envelope written outside the router, by auth and panic recovery
type Wire struct {
	StatusCode int               `json:"status_code"`
	Status     string            `json:"status"`
	Code       perr.ErrorCode    `json:"code,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     []perr.FieldIssue `json:"fields,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

// Error maps err to a status and its client safe envelope
func Error(err error, reqID string) (int, Wire) {
	status := http.StatusOK
	if err != nil {
		status = perr.HTTPStatus(err)
	}
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Fields:     w.Fields,
		RequestID:  reqID,
	}
}
