package shift

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

type ShiftService interface {
	CreateShift(ctx context.Context, caller user.Caller, req CreateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, caller user.Caller, code string) (ShiftResponse, error)
	ListShifts(ctx context.Context, caller user.Caller) ([]ShiftResponse, error)
}
