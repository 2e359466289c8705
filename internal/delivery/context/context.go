// Package context carries request-scoped values between the HTTP layer and
// the services: the request id, a logger tagged with it, and the caller.
package context

import (
	"context"
	"log/slog"

	"coderr/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"
	// KeyCaller holds the entity.Caller set by the auth middleware.
	KeyCaller ContextKey = "caller"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = echo.HeaderXRequestID
)

// --- echo.Context ---

// GetRequestID returns the id assigned by the request id middleware, or a
// fresh one for requests that never passed through it.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// SetCaller stores the authenticated identity on the request.
func SetCaller(c echo.Context, caller entity.Caller) {
	c.Set(string(KeyCaller), caller)
}

// GetCaller returns the identity stored by the auth middleware.
func GetCaller(c echo.Context) (entity.Caller, bool) {
	caller, ok := c.Get(string(KeyCaller)).(entity.Caller)

	return caller, ok
}

// --- context.Context ---

// GetRequestIDFromContext returns "" when no id was stored.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(KeyLogger).(*slog.Logger)

	return logger
}

// GetLoggerOrDefault falls back to the given logger outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
