package calendar

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

type CalendarService interface {
	CalculateWorkingDays(ctx context.Context, companyID string, req WorkingDaysRequest) (WorkingDaysResult, error)
	CheckWorkingDay(ctx context.Context, companyID, date string, region *string) (WorkingDayCheck, error)
	GetSettings(ctx context.Context, companyID string) (Settings, error)
	UpdateSettings(ctx context.Context, caller user.Caller, req UpdateSettingsRequest) (Settings, error)
	CreateHoliday(ctx context.Context, caller user.Caller, req CreateHolidayRequest) (HolidayEntry, error)
	ListHolidays(ctx context.Context, companyID string) ([]HolidayEntry, error)
	DeleteHoliday(ctx context.Context, caller user.Caller, id string) error
}
