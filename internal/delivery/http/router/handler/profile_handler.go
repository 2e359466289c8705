package handler

import (
	"coderr/internal/delivery/http/response"
	"coderr/internal/domain/service"
	"coderr/internal/usecase"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const profilePictureField = "file"

type profilePatchRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=150"`
	LastName     *string `json:"last_name" validate:"omitempty,max=150"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Tel          *string `json:"tel" validate:"omitempty,max=50"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=50"`
}

// ProfileHandler serves user profiles.
type ProfileHandler struct {
	uc        usecase.ProfileUsecase
	images    service.ImageStore
	presenter *view.Presenter
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, images service.ImageStore, presenter *view.Presenter) *ProfileHandler {
	return &ProfileHandler{uc: uc, images: images, presenter: presenter}
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Profile(user))
}

// UpdateProfile applies a partial update to the caller's own profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req profilePatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), caller, userID, usecase.ProfilePatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Location:     req.Location,
		Tel:          req.Tel,
		Description:  req.Description,
		WorkingHours: req.WorkingHours,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Profile(user))
}

// UploadPicture stores a multipart image and attaches it to the profile.
func (h *ProfileHandler) UploadPicture(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	path, err := saveUpload(c, h.images, profilePictureField, "profiles")
	if err != nil {
		return err
	}

	user, err := h.uc.SetProfilePicture(c.Request().Context(), caller, userID, path)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Profile(user))
}

func (h *ProfileHandler) ListBusinessProfiles(c echo.Context) error {
	users, err := h.uc.ListBusinessProfiles(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Profiles(users))
}

func (h *ProfileHandler) ListCustomerProfiles(c echo.Context) error {
	users, err := h.uc.ListCustomerProfiles(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Profiles(users))
}
