package handler

import (
	"coderr/internal/delivery/http/response"
	"coderr/internal/domain/entity"
	"coderr/internal/usecase"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type registrationRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type" validate:"required,oneof=customer business"`
	FirstName        string `json:"first_name" validate:"max=150"`
	LastName         string `json:"last_name" validate:"max=150"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	uc        usecase.UserUsecase
	presenter *view.Presenter
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.UserUsecase, presenter *view.Presenter) *AuthHandler {
	return &AuthHandler{uc: uc, presenter: presenter}
}

// Register opens an account together with its profile and returns a token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registrationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		RepeatedPassword: req.RepeatedPassword,
		Type:             entity.UserType(req.Type),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, h.presenter.Auth(output))
}

// Login exchanges credentials for a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.presenter.Auth(output))
}
