package auth

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrInvalidCredentials  = apperror.Unauthorized("invalid email or password")
	ErrAccountInactive     = apperror.Unauthorized("account is deactivated")
	ErrInvalidToken        = apperror.Unauthorized("invalid or expired token")
	ErrRefreshTokenRevoked = apperror.Unauthorized("refresh token has been revoked")
)
