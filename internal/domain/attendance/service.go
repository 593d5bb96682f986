package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	ClockIn(ctx context.Context, caller user.Caller, req ClockInRequest) (Record, error)
	StartBreak(ctx context.Context, caller user.Caller, req StartBreakRequest) (Record, error)
	EndBreak(ctx context.Context, caller user.Caller) (Record, error)
	// ClockOut closes today's record and recomputes every derived field
	ClockOut(ctx context.Context, caller user.Caller, req ClockOutRequest) (Record, error)
	// UpdateAttendance fixes wrong punches (admin/HR)
	UpdateAttendance(ctx context.Context, caller user.Caller, req UpdateAttendanceRequest) (Record, error)
	GetAttendance(ctx context.Context, caller user.Caller, id string) (Record, error)
	ListAttendance(ctx context.Context, caller user.Caller, filter AttendanceFilter) ([]Record, error)
}
