// Package context carries request-scoped values between the HTTP layer and the
// services: the request id, and a logger that accumulates shopper attributes as
// middleware learns who is calling.
package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"

	// HeaderXRequestID is echoed on every response and forwarded on order events.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID returns the id assigned by the request id middleware, or "" outside a request.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(string(KeyRequestID)).(string)

	return id
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault returns the request-scoped logger, or fallback when ctx has none.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// AddLogAttrs derives the request logger with extra attributes and stores it on
// the request, so handlers and services downstream log them too.
func AddLogAttrs(c echo.Context, fallback *slog.Logger, attrs ...any) {
	req := c.Request()
	logger := GetLoggerOrDefault(req.Context(), fallback).With(attrs...)
	c.SetRequest(req.WithContext(WithLogger(req.Context(), logger)))
}
