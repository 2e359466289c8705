package context

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"coderr/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestEchoContextValues(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := GetCaller(c)
	assert.False(t, ok)
	assert.NotEmpty(t, GetRequestID(c))

	SetRequestID(c, "req-1")
	SetCaller(c, entity.Caller{UserID: 3, Type: entity.UserTypeCustomer})

	assert.Equal(t, "req-1", GetRequestID(c))
	caller, ok := GetCaller(c)
	assert.True(t, ok)
	assert.Equal(t, int64(3), caller.UserID)
}

func TestLoggerFallback(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := fallback.With(slog.String("request_id", "req-2"))

	ctx := context.Background()
	assert.Same(t, fallback, GetLoggerOrDefault(ctx, fallback))
	assert.Empty(t, GetRequestIDFromContext(ctx))

	ctx = WithRequestID(WithLogger(ctx, scoped), "req-2")
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
	assert.Equal(t, "req-2", GetRequestIDFromContext(ctx))
}
