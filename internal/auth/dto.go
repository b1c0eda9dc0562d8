package auth

import (
	"github.com/atlastrek/tour-backend/internal/users"
	"github.com/atlastrek/tour-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the refresh token presented for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse contains the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateStaffRequest captures an admin's request to provision a staff account.
type CreateStaffRequest struct {
	Email     string          `json:"email" validate:"required,email,max=320"`
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Role      enums.StaffRole `json:"role" validate:"required"`
}

// CreateStaffResponse returns the new user together with the generated
// temporary password. The password is shown exactly once.
type CreateStaffResponse struct {
	User         *users.UserDTO `json:"user"`
	TempPassword string         `json:"temp_password"`
}
