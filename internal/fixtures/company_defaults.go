package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func boolPtr(b bool) *bool { return &b }

// ==========================================
// DEFAULT LEAVE TYPES
// ==========================================

// GetDefaultLeaveTypes returns standard leave types based on Indonesian labor law
func GetDefaultLeaveTypes() []leave.CreateLeaveTypeRequest {
	return []leave.CreateLeaveTypeRequest{
		// Annual Leave (Cuti Tahunan) - 12 days per year, up to 6 roll over until end of March
		{
			Code:               "ANNUAL",
			Name:               "Cuti Tahunan",
			AnnualQuota:        12,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			CarryForward:       leave.CarryForwardPolicy{Allowed: true, MaxDays: 6, ExpiryDays: 90},
			MinNoticeDays:      3,
			MaxConsecutiveDays: 12,
		},

		// Sick Leave (Cuti Sakit) - doctor's certificate for more than 1 day
		{
			Code:                  "SICK",
			Name:                  "Cuti Sakit",
			IsPaid:                true,
			RequiresApproval:      boolPtr(true),
			HasQuota:              boolPtr(false),
			RequiresDocument:      true,
			DocumentThresholdDays: 2,
		},

		// Marriage Leave (Cuti Menikah) - 3 days
		{
			Code:               "MARRIAGE",
			Name:               "Cuti Menikah",
			AnnualQuota:        3,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			MinNoticeDays:      7,
			MaxConsecutiveDays: 3,
			RequiresDocument:   true,
		},

		// Maternity Leave (Cuti Melahirkan) - 3 months
		{
			Code:               "MATERNITY",
			Name:               "Cuti Melahirkan",
			AnnualQuota:        90,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			MinNoticeDays:      14,
			MaxConsecutiveDays: 90,
			RequiresDocument:   true,
		},

		// Paternity Leave (Cuti Ayah) - 2 days
		{
			Code:               "PATERNITY",
			Name:               "Cuti Ayah",
			AnnualQuota:        2,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			MaxConsecutiveDays: 2,
			RequiresDocument:   true,
		},

		{
			Code:               "BEREAVEMENT_IMMEDIATE",
			Name:               "Cuti Duka Keluarga Inti",
			AnnualQuota:        2,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			MaxConsecutiveDays: 2,
		},
		{
			Code:               "BEREAVEMENT_EXTENDED",
			Name:               "Cuti Duka Keluarga Lain",
			AnnualQuota:        1,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			MaxConsecutiveDays: 1,
		},
		{
			Code:               "CHILD_CEREMONY",
			Name:               "Cuti Khitanan/Pembaptisan Anak",
			AnnualQuota:        2,
			IsPaid:             true,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(true),
			MinNoticeDays:      3,
			MaxConsecutiveDays: 2,
		},

		// Unpaid Leave (Cuti Tanpa Gaji) - no quota, at most 30 days at once
		{
			Code:               "UNPAID",
			Name:               "Cuti Tanpa Gaji",
			IsPaid:             false,
			RequiresApproval:   boolPtr(true),
			HasQuota:           boolPtr(false),
			MinNoticeDays:      7,
			MaxConsecutiveDays: 30,
		},
	}
}

// ==========================================
// DEFAULT SHIFTS
// ==========================================

// GetDefaultShifts returns office hours plus the afternoon and night shifts.
func GetDefaultShifts() []shift.CreateShiftRequest {
	return []shift.CreateShiftRequest{
		{
			Code:                           "OFFICE",
			Name:                           "Standard Office Hours",
			StartTime:                      "09:00",
			EndTime:                        "18:00",
			GracePeriodMinutes:             15,
			EarlyDepartureAllowanceMinutes: 15,
			OvertimeThresholdHours:         8,
			MinHoursForFullDay:             8,
			HalfDayThresholdHours:          4,
		},
		{
			Code:                           "AFTERNOON",
			Name:                           "Afternoon Shift",
			StartTime:                      "14:00",
			EndTime:                        "22:00",
			GracePeriodMinutes:             15,
			EarlyDepartureAllowanceMinutes: 15,
			OvertimeThresholdHours:         8,
			MinHoursForFullDay:             7,
			HalfDayThresholdHours:          4,
		},
		// 22:00-06:00, clock-out lands on the next day
		{
			Code:                           "NIGHT",
			Name:                           "Night Shift",
			StartTime:                      "22:00",
			EndTime:                        "06:00",
			GracePeriodMinutes:             15,
			EarlyDepartureAllowanceMinutes: 15,
			OvertimeThresholdHours:         8,
			MinHoursForFullDay:             7,
			HalfDayThresholdHours:          4,
		},
	}
}

// ==========================================
// SEEDING
// ==========================================

type LeaveTypeCreator interface {
	CreateLeaveType(ctx context.Context, caller user.Caller, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error)
}

type ShiftCreator interface {
	CreateShift(ctx context.Context, caller user.Caller, req shift.CreateShiftRequest) (shift.ShiftResponse, error)
}

// SeedCompany creates the default leave types and shifts for a company.
// Codes that already exist are left untouched, so seeding can be repeated.
func SeedCompany(ctx context.Context, companyID string, leaveTypes LeaveTypeCreator, shifts ShiftCreator, logger *slog.Logger) error {
	system := user.Caller{UserID: "system", CompanyID: companyID, Role: user.RoleOwner}

	created := 0
	for _, req := range GetDefaultLeaveTypes() {
		_, err := leaveTypes.CreateLeaveType(ctx, system, req)
		switch {
		case errors.Is(err, leave.ErrLeaveTypeCodeExists):
		case err != nil:
			return fmt.Errorf("failed to seed leave type %s: %w", req.Code, err)
		default:
			created++
		}
	}
	for _, req := range GetDefaultShifts() {
		_, err := shifts.CreateShift(ctx, system, req)
		switch {
		case errors.Is(err, shift.ErrShiftCodeExists):
		case err != nil:
			return fmt.Errorf("failed to seed shift %s: %w", req.Code, err)
		default:
			created++
		}
	}

	logger.Info("company defaults seeded", slog.String("company_id", companyID), slog.Int("created", created))
	return nil
}
