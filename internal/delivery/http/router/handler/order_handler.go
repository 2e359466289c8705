package handler

import (
	"coderr/internal/delivery/http/response"
	"coderr/internal/usecase"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createOrderRequest struct {
	OfferDetailID *int64 `json:"offer_detail_id" validate:"required"`
}

type updateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler serves the order lifecycle.
type OrderHandler struct {
	uc        usecase.OrderUsecase
	presenter *view.Presenter
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, presenter *view.Presenter) *OrderHandler {
	return &OrderHandler{uc: uc, presenter: presenter}
}

// ListOrders returns the orders the caller takes part in, as customer or business partner.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	orders, err := h.uc.ListOrdersFor(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Orders(orders))
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.uc.CreateOrder(c.Request().Context(), caller, *req.OfferDetailID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, h.presenter.Order(order))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.GetOrder(c.Request().Context(), caller, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Order(order))
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.uc.UpdateOrderStatus(c.Request().Context(), caller, orderID, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Order(order))
}

// DeleteOrder always answers with the use case's refusal.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), caller, orderID); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

func (h *OrderHandler) OrderCount(c echo.Context) error {
	businessUserID, err := pathID(c, "business_user_id")
	if err != nil {
		return err
	}

	count, err := h.uc.OrderCount(c.Request().Context(), businessUserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, view.OrderCount{OrderCount: count})
}

func (h *OrderHandler) CompletedOrderCount(c echo.Context) error {
	businessUserID, err := pathID(c, "business_user_id")
	if err != nil {
		return err
	}

	count, err := h.uc.CompletedOrderCount(c.Request().Context(), businessUserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, view.CompletedOrderCount{CompletedOrderCount: count})
}
