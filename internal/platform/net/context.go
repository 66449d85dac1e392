// Package net carries request identity on the context and renders errors for the wire
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	keyUserID   ctxKey = "user_id"
	keyUserName ctxKey = "user_name"
)

// WithUser stores the authenticated worker; empty values are not stored
func WithUser(ctx context.Context, userID, userName string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, keyUserID, userID)
	}
	if userName != "" {
		ctx = context.WithValue(ctx, keyUserName, userName)
	}
	return ctx
}

// RequestID is the id chi's RequestID middleware assigned, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// UserID is the authenticated worker id, or ""
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(keyUserID).(string)
	return v
}

// UserName is the worker display name from the token, or ""
func UserName(ctx context.Context) string {
	v, _ := ctx.Value(keyUserName).(string)
	return v
}
