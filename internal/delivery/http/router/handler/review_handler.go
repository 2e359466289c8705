package handler

import (
	"encoding/json"

	"coderr/internal/delivery/http/response"
	"coderr/internal/usecase"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Rating stays raw; the review guard decides what counts as an integer.
type createReviewRequest struct {
	BusinessUser *int64          `json:"business_user"`
	Rating       json.RawMessage `json:"rating"`
	Description  *string         `json:"description"`
	Order        *int64          `json:"order"`
}

type updateReviewRequest struct {
	Rating      json.RawMessage `json:"rating"`
	Description *string         `json:"description"`
}

// ReviewHandler serves customer reviews of businesses.
type ReviewHandler struct {
	uc        usecase.ReviewUsecase
	presenter *view.Presenter
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, presenter *view.Presenter) *ReviewHandler {
	return &ReviewHandler{uc: uc, presenter: presenter}
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	reviews, err := h.uc.ListReviews(c.Request().Context(), usecase.ListReviewsInput{
		BusinessUserID: c.QueryParam("business_user_id"),
		ReviewerID:     c.QueryParam("reviewer_id"),
		Ordering:       c.QueryParam("ordering"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Reviews(reviews))
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.uc.CreateReview(c.Request().Context(), caller, usecase.CreateReviewInput{
		BusinessUserID: req.BusinessUser,
		Rating:         req.Rating,
		Description:    req.Description,
		OrderID:        req.Order,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, h.presenter.Review(review))
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	reviewID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.uc.GetReview(c.Request().Context(), reviewID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Review(review))
}

// UpdateReview changes rating and description only.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.uc.UpdateReview(c.Request().Context(), caller, reviewID, usecase.UpdateReviewInput{
		Rating:      req.Rating,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Review(review))
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteReview(c.Request().Context(), caller, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}
