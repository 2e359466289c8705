package handler

import (
	"log/slog"
	"net/http"

	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MediaHandler streams stored images back to clients.
type MediaHandler struct {
	images service.ImageStore
	logger *slog.Logger
}

// NewMediaHandler is the constructor for MediaHandler, injected by Fx.
func NewMediaHandler(images service.ImageStore, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{images: images, logger: logger}
}

// Serve answers GET /media/<path> with the stored object.
func (h *MediaHandler) Serve(c echo.Context) error {
	reader, contentType, err := h.images.Open(c.Request().Context(), c.Param("*"))
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			return domainerrors.ErrNotFound.WithMessage("Not found.")
		}

		return errors.WithStack(err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			h.logger.Warn("Failed to close media reader", slog.Any("error", cerr))
		}
	}()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Stream(http.StatusOK, contentType, reader)
}
