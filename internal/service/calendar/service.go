package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/google/uuid"
)

// Defaults apply to tenants that have not stored their own settings.
type Defaults struct {
	TimeZone    string
	WeekendDays []time.Weekday
}

type CalendarServiceImpl struct {
	calendar.HolidayRepository
	calendar.SettingsRepository
	defaults Defaults
	logger   *slog.Logger
}

func NewCalendarService(holidayRepository calendar.HolidayRepository, settingsRepository calendar.SettingsRepository, defaults Defaults, logger *slog.Logger) *CalendarServiceImpl {
	if defaults.WeekendDays == nil {
		defaults.WeekendDays = calendar.DefaultWeekend()
	}
	return &CalendarServiceImpl{
		HolidayRepository:  holidayRepository,
		SettingsRepository: settingsRepository,
		defaults:           defaults,
		logger:             logger,
	}
}

// GetSettings implements calendar.CalendarService.
func (s *CalendarServiceImpl) GetSettings(ctx context.Context, companyID string) (calendar.Settings, error) {
	settings, err := s.SettingsRepository.GetByCompanyID(ctx, companyID)
	if err == nil {
		if settings.WeekendDays == nil {
			settings.WeekendDays = []time.Weekday{}
		}
		return settings, nil
	}
	if !errors.Is(err, calendar.ErrSettingsNotFound) {
		return calendar.Settings{}, fmt.Errorf("failed to get calendar settings: %w", err)
	}
	return calendar.Settings{
		CompanyID:   companyID,
		TimeZone:    s.defaults.TimeZone,
		WeekendDays: s.defaults.WeekendDays,
	}, nil
}

// UpdateSettings implements calendar.CalendarService.
func (s *CalendarServiceImpl) UpdateSettings(ctx context.Context, caller user.Caller, req calendar.UpdateSettingsRequest) (calendar.Settings, error) {
	if !user.HasPermission(caller.Role, user.PermissionCalendarManage) {
		return calendar.Settings{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return calendar.Settings{}, err
	}

	settings := calendar.Settings{
		CompanyID:        caller.CompanyID,
		TimeZone:         req.TimeZone,
		WeekendDays:      req.Weekdays(),
		DefaultShiftCode: req.DefaultShiftCode,
	}
	if err := s.SettingsRepository.Upsert(ctx, settings); err != nil {
		return calendar.Settings{}, fmt.Errorf("failed to save calendar settings: %w", err)
	}

	s.logger.Info("calendar settings updated",
		slog.String("company_id", caller.CompanyID),
		slog.String("time_zone", settings.TimeZone),
	)
	return settings, nil
}

// CalculateWorkingDays implements calendar.CalendarService.
func (s *CalendarServiceImpl) CalculateWorkingDays(ctx context.Context, companyID string, req calendar.WorkingDaysRequest) (calendar.WorkingDaysResult, error) {
	if err := req.Validate(); err != nil {
		return calendar.WorkingDaysResult{}, err
	}

	settings, err := s.GetSettings(ctx, companyID)
	if err != nil {
		return calendar.WorkingDaysResult{}, err
	}
	loc, err := settings.Location()
	if err != nil {
		return calendar.WorkingDaysResult{}, err
	}

	start, err := calendar.ParseDate(req.StartDate, loc)
	if err != nil {
		return calendar.WorkingDaysResult{}, err
	}
	end, err := calendar.ParseDate(req.EndDate, loc)
	if err != nil {
		return calendar.WorkingDaysResult{}, err
	}

	var holidays []calendar.HolidayEntry
	if !start.After(end) {
		holidays, err = s.HolidayRepository.GetHolidaysInRange(ctx, companyID, start, end)
		if err != nil {
			return calendar.WorkingDaysResult{}, fmt.Errorf("failed to get holidays: %w", err)
		}
	}

	return Calculate(Input{
		Start:        start,
		End:          end,
		Location:     loc,
		WeekendDays:  settings.WeekendDays,
		Holidays:     holidays,
		Region:       req.RegionCode(),
		DurationType: req.DurationType,
		HalfDayType:  req.HalfDayType,
		EndExclusive: req.EndExclusive,
	})
}

// CheckWorkingDay implements calendar.CalendarService.
func (s *CalendarServiceImpl) CheckWorkingDay(ctx context.Context, companyID, date string, region *string) (calendar.WorkingDayCheck, error) {
	settings, err := s.GetSettings(ctx, companyID)
	if err != nil {
		return calendar.WorkingDayCheck{}, err
	}
	loc, err := settings.Location()
	if err != nil {
		return calendar.WorkingDayCheck{}, err
	}
	day, err := calendar.ParseDate(date, loc)
	if err != nil {
		return calendar.WorkingDayCheck{}, err
	}

	holidays, err := s.HolidayRepository.GetHolidaysInRange(ctx, companyID, day, day)
	if err != nil {
		return calendar.WorkingDayCheck{}, fmt.Errorf("failed to get holidays: %w", err)
	}

	var regionCode string
	if region != nil {
		regionCode = *region
	}
	return CheckDay(day, loc, settings.WeekendDays, holidays, regionCode), nil
}

// CreateHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) CreateHoliday(ctx context.Context, caller user.Caller, req calendar.CreateHolidayRequest) (calendar.HolidayEntry, error) {
	if !user.HasPermission(caller.Role, user.PermissionCalendarManage) {
		return calendar.HolidayEntry{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return calendar.HolidayEntry{}, err
	}

	date, err := calendar.ParseDate(req.Date, time.UTC)
	if err != nil {
		return calendar.HolidayEntry{}, err
	}

	holiday := calendar.HolidayEntry{
		ID:                uuid.Must(uuid.NewV7()).String(),
		CompanyID:         caller.CompanyID,
		Date:              date,
		Name:              req.Name,
		Type:              req.Type,
		IsRecurring:       req.IsRecurring,
		ApplicableRegions: req.ApplicableRegions,
	}
	if req.IsRecurring {
		holiday.RecurringMonth = int(date.Month())
		holiday.RecurringDay = date.Day()
	}

	created, err := s.HolidayRepository.Create(ctx, holiday)
	if err != nil {
		return calendar.HolidayEntry{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// ListHolidays implements calendar.CalendarService.
func (s *CalendarServiceImpl) ListHolidays(ctx context.Context, companyID string) ([]calendar.HolidayEntry, error) {
	holidays, err := s.HolidayRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

// DeleteHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) DeleteHoliday(ctx context.Context, caller user.Caller, id string) error {
	if !user.HasPermission(caller.Role, user.PermissionCalendarManage) {
		return user.ErrInsufficientPermissions
	}
	return s.HolidayRepository.Delete(ctx, caller.CompanyID, id)
}

var _ calendar.CalendarService = (*CalendarServiceImpl)(nil)
