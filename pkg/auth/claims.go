package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.UserRole
	Verified bool
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. Role and
// Verified feed the voucher validity checks downstream.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	Role     enums.UserRole `json:"role"`
	Verified bool           `json:"verified"`
	jwt.RegisteredClaims
}
