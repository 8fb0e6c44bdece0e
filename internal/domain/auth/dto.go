package auth

import (
	"strings"

	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if len(r.Email) > 254 {
		errs.Add("email", "email must not exceed 254 characters")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) > 255 {
		errs.Add("password", "password must not exceed 255 characters")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	} else if len(r.RefreshToken) > 2048 {
		errs.Add("refresh_token", "refresh_token must not exceed 2048 characters")
	}

	return errs.Err()
}

// SessionTrackingRequest describes the client a refresh token was issued to.
type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type MeResponse struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         user.Role `json:"role"`
	EmployeeID   *string   `json:"employee_id,omitempty"`
	EmployeeCode *string   `json:"employee_code,omitempty"`
	FullName     *string   `json:"full_name,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Position     *string   `json:"position,omitempty"`
	LastLoginAt  *string   `json:"last_login_at,omitempty"`
}
