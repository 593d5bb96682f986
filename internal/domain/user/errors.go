package user

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrCallerRequired          = apperror.New(apperror.KindUnauthorized, "authenticated caller required")
	ErrCompanyIDRequired       = apperror.New(apperror.KindUnauthorized, "company ID is required")
	ErrInvalidRole             = apperror.New(apperror.KindUnauthorized, "invalid role")
	ErrInsufficientPermissions = apperror.New(apperror.KindUnauthorized, "insufficient permissions")
)
