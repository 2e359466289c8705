package handler

import (
	"coderr/internal/delivery/http/response"
	"coderr/internal/domain/offerquery"
	"coderr/internal/domain/offertier"
	"coderr/internal/domain/service"
	"coderr/internal/usecase"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const offerImageField = "image"

type createOfferRequest struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Description string            `json:"description"`
	Details     []offertier.Input `json:"details" validate:"required"`
}

// Tier numerics are checked by offertier, not by tags, so that string
// numbers surface as type errors.
type updateOfferRequest struct {
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	Description *string           `json:"description"`
	Details     []offertier.Input `json:"details"`
}

// OfferHandler serves offers and their tiers.
type OfferHandler struct {
	uc        usecase.OfferUsecase
	images    service.ImageStore
	presenter *view.Presenter
}

// NewOfferHandler is the constructor for OfferHandler, injected by Fx.
func NewOfferHandler(uc usecase.OfferUsecase, images service.ImageStore, presenter *view.Presenter) *OfferHandler {
	return &OfferHandler{uc: uc, images: images, presenter: presenter}
}

// ListOffers passes the raw query string to the offer query parser.
func (h *OfferHandler) ListOffers(c echo.Context) error {
	page, err := h.uc.ListOffers(c.Request().Context(), offerquery.Params{
		CreatorID:       c.QueryParam("creator_id"),
		MinPrice:        c.QueryParam("min_price"),
		MaxDeliveryTime: c.QueryParam("max_delivery_time"),
		Search:          c.QueryParam("search"),
		Ordering:        c.QueryParam("ordering"),
		Page:            c.QueryParam("page"),
		PageSize:        c.QueryParam("page_size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.OfferPage(page))
}

func (h *OfferHandler) CreateOffer(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req createOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	offer, err := h.uc.CreateOffer(c.Request().Context(), caller, usecase.CreateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Details:     req.Details,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, h.presenter.Offer(offer))
}

func (h *OfferHandler) GetOffer(c echo.Context) error {
	offerID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	offer, err := h.uc.GetOffer(c.Request().Context(), offerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Offer(offer))
}

// UpdateOffer patches offer fields and any tiers named by offer_type.
func (h *OfferHandler) UpdateOffer(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	offer, err := h.uc.UpdateOffer(c.Request().Context(), caller, offerID, usecase.UpdateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Details:     req.Details,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Offer(offer))
}

func (h *OfferHandler) DeleteOffer(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteOffer(c.Request().Context(), caller, offerID); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

// UploadImage stores a multipart image and attaches it to the offer.
func (h *OfferHandler) UploadImage(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	path, err := saveUpload(c, h.images, offerImageField, "offers")
	if err != nil {
		return err
	}

	offer, err := h.uc.SetOfferImage(c.Request().Context(), caller, offerID, path)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Offer(offer))
}

func (h *OfferHandler) GetOfferDetail(c echo.Context) error {
	detailID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.uc.GetOfferDetail(c.Request().Context(), detailID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.OfferDetail(detail))
}
