package handler

import (
	"net/http"

	"coderr/internal/delivery/http/response"
	"coderr/internal/usecase"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PlatformHandler serves public platform statistics and the health probe.
type PlatformHandler struct {
	uc        usecase.PlatformUsecase
	presenter *view.Presenter
}

// NewPlatformHandler is the constructor for PlatformHandler, injected by Fx.
func NewPlatformHandler(uc usecase.PlatformUsecase, presenter *view.Presenter) *PlatformHandler {
	return &PlatformHandler{uc: uc, presenter: presenter}
}

func (h *PlatformHandler) BaseInfo(c echo.Context) error {
	summary, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Summary(summary))
}

func (h *PlatformHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
