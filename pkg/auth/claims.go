package auth

import (
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.StaffRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to back-office staff.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email,omitempty"`
	Role   enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
