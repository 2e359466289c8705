package validator

import (
	"testing"

	domainerrors "coderr/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Type     string `json:"type" validate:"required,oneof=customer business"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(&signupRequest{Username: "max", Email: "max@example.com", Password: "longenough", Type: "business"})
		assert.NoError(t, err)
	})

	t.Run("reports fields by json name", func(t *testing.T) {
		err := v.Validate(&signupRequest{Email: "nope", Password: "short", Type: "admin"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

		appErr, ok := domainerrors.AsAppError(err)
		require.True(t, ok)
		details, ok := appErr.Details().(domainerrors.FieldErrors)
		require.True(t, ok)
		assert.Equal(t, "This field is required.", details["username"])
		assert.Equal(t, "Enter a valid email address.", details["email"])
		assert.Equal(t, "Ensure this field has at least 8 characters.", details["password"])
		assert.Contains(t, details["type"], "customer, business")
	})
}
