// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyOperatorID ctxKey = "operator_id"

// WithRequest annotates context with the request id so chimw.GetReqID can
// retrieve it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithOperator annotates context with the authenticated operator identity
// (an opaque token consumed by audit fields)
func WithOperator(ctx context.Context, operatorID string) context.Context {
	if operatorID != "" {
		ctx = context.WithValue(ctx, keyOperatorID, operatorID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// OperatorID returns the operator identity on the context if present
func OperatorID(ctx context.Context) string {
	if v, ok := ctx.Value(keyOperatorID).(string); ok {
		return v
	}
	return ""
}
