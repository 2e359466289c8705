// Package handler contains the HTTP handlers for the application.
package handler

import (
	"strconv"

	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Path ids that are not integers cannot name a resource.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrNotFound.WithMessage("Not found.")
	}

	return id, nil
}

func callerFrom(c echo.Context) (entity.Caller, error) {
	caller, ok := deliverycontext.GetCaller(c)
	if !ok {
		return entity.Caller{}, domainerrors.ErrUnauthorized
	}

	return caller, nil
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		message := "Malformed request body."
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if msg, ok := httpErr.Message.(string); ok && msg != "" {
				message = msg
			}
		}

		return domainerrors.ErrValidationFailed.WithMessage(message)
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	return nil
}

// saveUpload stores the multipart file under field in the image store.
// Nothing removes the object if the request fails afterwards.
func saveUpload(c echo.Context, images service.ImageStore, field, prefix string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", domainerrors.ErrValidationFailed.WithField(field, "No file was submitted.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", errors.Wrap(err, "failed to open upload")
	}
	defer file.Close()

	path, err := images.Save(c.Request().Context(), prefix, fileHeader.Filename, file)
	switch {
	case errors.Is(err, service.ErrUnsupportedImage):
		return "", domainerrors.ErrValidationFailed.WithField(field,
			"Upload a valid image. Supported formats: jpg, jpeg, png, gif, webp.")
	case errors.Is(err, service.ErrImageTooLarge):
		return "", domainerrors.ErrValidationFailed.WithField(field, "The uploaded image is too large.")
	case err != nil:
		return "", errors.Wrap(err, "failed to store upload")
	}

	return path, nil
}
