package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ledgerRequest(start string, duration float64, status leave.Status) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:            start + string(status),
		EmployeeID:    "e-1",
		LeaveTypeCode: "ANNUAL",
		StartDate:     date(start),
		EndDate:       date(start),
		Duration:      duration,
		Status:        status,
	}
}

func annualType() leave.LeaveType {
	return leave.LeaveType{Code: "ANNUAL", AnnualQuota: 12, HasQuota: true, IsActive: true}
}

func TestDeriveBalance(t *testing.T) {
	requests := []leave.LeaveRequest{
		ledgerRequest("2025-02-03", 2, leave.StatusApproved),
		ledgerRequest("2025-03-10", 3, leave.StatusPending),
		ledgerRequest("2025-03-17", 1, leave.StatusOnHold),
		ledgerRequest("2025-01-06", 4, leave.StatusPending), // already in the past
		ledgerRequest("2025-04-07", 5, leave.StatusRejected),
		ledgerRequest("2025-04-14", 6, leave.StatusCancelled),
		ledgerRequest("2024-12-02", 7, leave.StatusApproved), // previous year
	}

	b := DeriveBalance("e-1", annualType(), 2025, date("2025-03-03"), requests)

	assert.Equal(t, 12.0, b.Quota)
	assert.Equal(t, 2.0, b.Used)
	assert.Equal(t, 4.0, b.Pending)
	assert.Equal(t, 10.0, b.Balance)
	assert.Equal(t, 6.0, b.Available)
	assert.Equal(t, 0.0, b.CarriedForward)
}

func TestDeriveBalance_IgnoresDeletedRequests(t *testing.T) {
	deleted := ledgerRequest("2025-02-03", 2, leave.StatusApproved)
	deleted.IsDeleted = true

	b := DeriveBalance("e-1", annualType(), 2025, date("2025-01-01"), []leave.LeaveRequest{deleted})
	assert.Equal(t, 0.0, b.Used)
	assert.Equal(t, 12.0, b.Available)
}

func TestDeriveBalance_WithoutQuota(t *testing.T) {
	lt := annualType()
	lt.HasQuota = false

	b := DeriveBalance("e-1", lt, 2025, date("2025-01-01"), []leave.LeaveRequest{
		ledgerRequest("2025-02-03", 2, leave.StatusApproved),
	})
	assert.False(t, b.HasQuota)
	assert.Equal(t, 2.0, b.Used)
	assert.Equal(t, 0.0, b.Available)
}

func TestDeriveBalance_CarryForward(t *testing.T) {
	lt := annualType()
	lt.CarryForward = leave.CarryForwardPolicy{Allowed: true, MaxDays: 3, ExpiryDays: 90}
	history := []leave.LeaveRequest{ledgerRequest("2024-06-03", 7, leave.StatusApproved)}

	tests := []struct {
		today string
		want  float64
	}{
		{"2025-01-15", 3},
		{"2025-03-31", 3},
		{"2025-04-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.today, func(t *testing.T) {
			b := DeriveBalance("e-1", lt, 2025, date(tt.today), history)
			assert.Equal(t, tt.want, b.CarriedForward)
			assert.Equal(t, 12+tt.want, b.Balance)
		})
	}

	lt.CarryForward.MaxDays = 0
	b := DeriveBalance("e-1", lt, 2025, date("2025-01-15"), history)
	assert.Equal(t, 5.0, b.CarriedForward)

	lt.CarryForward.Allowed = false
	b = DeriveBalance("e-1", lt, 2025, date("2025-01-15"), history)
	assert.Equal(t, 0.0, b.CarriedForward)
}

func TestDeriveBalance_HalfDays(t *testing.T) {
	b := DeriveBalance("e-1", annualType(), 2025, date("2025-01-01"), []leave.LeaveRequest{
		ledgerRequest("2025-02-03", 0.5, leave.StatusApproved),
		ledgerRequest("2025-02-10", 0.5, leave.StatusApproved),
		ledgerRequest("2025-02-17", 0.5, leave.StatusPending),
	})
	assert.Equal(t, 1.0, b.Used)
	assert.Equal(t, 0.5, b.Pending)
	assert.Equal(t, 10.5, b.Available)
}

func TestProjectBalance(t *testing.T) {
	start := DeriveBalance("e-1", annualType(), 2025, date("2025-01-01"), nil)

	b := ProjectBalance(start, "", leave.StatusPending, 3)
	assert.Equal(t, 3.0, b.Pending)
	assert.Equal(t, 9.0, b.Available)

	b = ProjectBalance(b, leave.StatusPending, leave.StatusApproved, 3)
	assert.Equal(t, 0.0, b.Pending)
	assert.Equal(t, 3.0, b.Used)
	assert.Equal(t, 9.0, b.Balance)

	b = ProjectBalance(b, leave.StatusApproved, leave.StatusCancelled, 3)
	assert.Equal(t, start, b)
}

func TestEncashableDays(t *testing.T) {
	b := leave.Balance{HasQuota: true, Balance: 10}

	assert.Equal(t, 2.5, EncashableDays(b, leave.EncashmentPolicy{Allowed: true, MaxDays: 5, Ratio: 0.5}))
	assert.Equal(t, 10.0, EncashableDays(b, leave.EncashmentPolicy{Allowed: true, Ratio: 1}))
	assert.Equal(t, 0.0, EncashableDays(b, leave.EncashmentPolicy{Allowed: false, MaxDays: 5, Ratio: 1}))
	assert.Equal(t, 0.0, EncashableDays(leave.Balance{HasQuota: true, Balance: -1}, leave.EncashmentPolicy{Allowed: true, Ratio: 1}))
}
