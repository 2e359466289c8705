package service

import (
	"coderr/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by access tokens.
type Claims struct {
	UserID   int64           `json:"uid"`
	UserType entity.UserType `json:"user_type"`
	jwt.RegisteredClaims
}

// Caller converts validated claims into the identity passed to core operations.
func (c *Claims) Caller() entity.Caller {
	return entity.Caller{UserID: c.UserID, Type: c.UserType}
}

// TokenService defines the interface for issuing and validating access tokens.
type TokenService interface {
	// GenerateToken creates an access token for the given user.
	GenerateToken(user *entity.User) (string, error)

	// ValidateToken checks signature and expiry and returns the claims.
	ValidateToken(tokenString string) (*Claims, error)
}
