package employee

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.KindNotFound, "employee not found")
	ErrEmployeeExists   = apperror.New(apperror.KindConflict, "employee already exists")
)
