package shift

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = user.Caller{UserID: "u-admin", CompanyID: "c1", EmployeeID: "e-admin", Role: user.RoleAdmin}
	employee = user.Caller{UserID: "u-emp", CompanyID: "c1", EmployeeID: "e-1", Role: user.RoleEmployee}
)

func newTestService() *ShiftServiceImpl {
	return NewShiftService(memory.NewShiftRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func nightRequest() shift.CreateShiftRequest {
	return shift.CreateShiftRequest{
		Code:               "NIGHT",
		Name:               "Night shift",
		StartTime:          "22:00",
		EndTime:            "06:00",
		GracePeriodMinutes: 10,
		MinHoursForFullDay: 8,
	}
}

func TestShiftService_CreateShift(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateShift(ctx, admin, nightRequest())
	require.NoError(t, err)
	assert.True(t, created.IsNightShift)
	assert.True(t, created.IsActive)
	assert.Equal(t, "22:00", created.StartTime.String())
	assert.Equal(t, 8.0, created.OvertimeThresholdHours)

	_, err = svc.CreateShift(ctx, admin, nightRequest())
	assert.ErrorIs(t, err, shift.ErrShiftCodeExists)

	other := admin
	other.CompanyID = "c2"
	_, err = svc.CreateShift(ctx, other, nightRequest())
	assert.NoError(t, err)
}

func TestShiftService_CreateShift_Rejects(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateShift(ctx, employee, nightRequest())
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	empty := nightRequest()
	empty.EndTime = empty.StartTime
	_, err = svc.CreateShift(ctx, admin, empty)
	assert.ErrorIs(t, err, shift.ErrEmptyShift)

	badClock := nightRequest()
	badClock.StartTime = "25:00"
	_, err = svc.CreateShift(ctx, admin, badClock)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestShiftService_GetAndList(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateShift(ctx, admin, nightRequest())
	require.NoError(t, err)
	day := shift.CreateShiftRequest{Code: "DAY", Name: "Day", StartTime: "09:00", EndTime: "17:00", MinHoursForFullDay: 8, OvertimeThresholdHours: 9}
	_, err = svc.CreateShift(ctx, admin, day)
	require.NoError(t, err)

	got, err := svc.GetShift(ctx, employee, "DAY")
	require.NoError(t, err)
	assert.False(t, got.IsNightShift)
	assert.Equal(t, 9.0, got.OvertimeThresholdHours)

	_, err = svc.GetShift(ctx, employee, "EVENING")
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	list, err := svc.ListShifts(ctx, employee)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "DAY", list[0].Code)
	assert.Equal(t, "NIGHT", list[1].Code)
}
