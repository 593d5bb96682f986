package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/keylock"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	shift.ShiftRepository
	calendarService calendar.CalendarService
	locks           *keylock.KeyLock
	sink            notification.Sink
	logger          *slog.Logger
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	shiftRepository shift.ShiftRepository,
	calendarService calendar.CalendarService,
	sink notification.Sink,
	logger *slog.Logger,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		ShiftRepository:      shiftRepository,
		calendarService:      calendarService,
		locks:                keylock.New(),
		sink:                 sink,
		logger:               logger,
		now:                  time.Now,
	}
}

// resolvedShift is the shift a record is measured against.
type resolvedShift struct {
	definition shift.ShiftDefinition
	fallback   bool
}

func (s *AttendanceServiceImpl) lookupShift(ctx context.Context, companyID, code string) (shift.ShiftDefinition, bool, error) {
	definition, err := s.ShiftRepository.GetByCode(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftDefinition{}, false, nil
		}
		return shift.ShiftDefinition{}, false, fmt.Errorf("failed to get shift: %w", err)
	}
	return definition, definition.IsActive, nil
}

// resolveShift picks the employee's shift, then the tenant default, then the
// built-in office hours. Using the built-in hours is flagged and logged.
func (s *AttendanceServiceImpl) resolveShift(ctx context.Context, emp employee.Employee, settings calendar.Settings) (resolvedShift, error) {
	for _, code := range []*string{emp.ShiftCode, settings.DefaultShiftCode} {
		if code == nil || *code == "" {
			continue
		}
		definition, ok, err := s.lookupShift(ctx, emp.CompanyID, *code)
		if err != nil {
			return resolvedShift{}, err
		}
		if ok {
			return resolvedShift{definition: definition}, nil
		}
		s.logger.Warn("configured shift unavailable",
			slog.String("company_id", emp.CompanyID),
			slog.String("employee_id", emp.ID),
			slog.String("shift_code", *code),
		)
	}

	s.logger.Warn("no shift resolved, using fallback office hours",
		slog.String("company_id", emp.CompanyID),
		slog.String("employee_id", emp.ID),
	)
	return resolvedShift{definition: shift.FallbackShift(), fallback: true}, nil
}

// tenant returns the tenant's settings and zone.
func (s *AttendanceServiceImpl) tenant(ctx context.Context, companyID string) (calendar.Settings, *time.Location, error) {
	settings, err := s.calendarService.GetSettings(ctx, companyID)
	if err != nil {
		return calendar.Settings{}, nil, err
	}
	loc, err := settings.Location()
	if err != nil {
		return calendar.Settings{}, nil, err
	}
	return settings, loc, nil
}

func (s *AttendanceServiceImpl) getEmployee(ctx context.Context, companyID, employeeID string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// self resolves the employee a punch is recorded for.
func (s *AttendanceServiceImpl) self(ctx context.Context, caller user.Caller) (employee.Employee, error) {
	if !user.HasPermission(caller.Role, user.PermissionAttendanceCreate) {
		return employee.Employee{}, attendance.ErrUnauthorized
	}
	if caller.EmployeeID == "" {
		return employee.Employee{}, user.ErrCallerRequired
	}
	return s.getEmployee(ctx, caller.CompanyID, caller.EmployeeID)
}

// openRecord finds the record a punch applies to: today's, or yesterday's
// when it is still open, so a night shift can clock out after midnight.
func (s *AttendanceServiceImpl) openRecord(ctx context.Context, employeeID string, loc *time.Location) (attendance.Record, error) {
	today := calendar.StartOfDay(s.now(), loc)

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today.Format(calendar.DateLayout))
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	yesterday := today.AddDate(0, 0, -1).Format(calendar.DateLayout)
	record, err = s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, yesterday)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, attendance.ErrNotClockedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if record.ClockOut != nil {
		return attendance.Record{}, attendance.ErrNotClockedIn
	}
	return record, nil
}

// recompute writes every derived field at once, or resets them when the
// record is incomplete.
func recompute(record *attendance.Record, rs resolvedShift, loc *time.Location) error {
	record.ShiftCode = rs.definition.Code
	record.ScheduledStart = rs.definition.StartTime.String()
	record.ScheduledEnd = rs.definition.EndTime.String()
	record.UsedFallbackShift = rs.fallback

	if !record.IsComplete() {
		record.ClearDerived()
		return nil
	}
	if !record.ClockOut.Time.After(record.ClockIn.Time) {
		return attendance.ErrClockOutBeforeClockIn
	}

	day, err := calendar.ParseDate(record.Date, loc)
	if err != nil {
		return err
	}
	record.Apply(Compute(record.ClockIn.Time, record.ClockOut.Time, record.BreakDurationMinutes, rs.definition, day, loc))
	return nil
}

func (s *AttendanceServiceImpl) update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	record.UpdatedAt = s.now()
	updated, err := s.AttendanceRepository.Update(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrConcurrentUpdate) || errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return updated, nil
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, caller user.Caller, req attendance.ClockInRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	emp, err := s.self(ctx, caller)
	if err != nil {
		return attendance.Record{}, err
	}
	settings, loc, err := s.tenant(ctx, caller.CompanyID)
	if err != nil {
		return attendance.Record{}, err
	}
	rs, err := s.resolveShift(ctx, emp, settings)
	if err != nil {
		return attendance.Record{}, err
	}

	unlock := s.locks.Lock(emp.ID)
	defer unlock()

	now := s.now()
	record := attendance.Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		CompanyID:  caller.CompanyID,
		EmployeeID: emp.ID,
		Date:       calendar.StartOfDay(now, loc).Format(calendar.DateLayout),
		ClockIn:    &attendance.Punch{Time: now, Source: req.Source, Note: req.Note},
		Breaks:     []attendance.Break{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := recompute(&record, rs, loc); err != nil {
		return attendance.Record{}, err
	}

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	s.logger.Info("employee clocked in",
		slog.String("attendance_id", created.ID),
		slog.String("employee_id", created.EmployeeID),
		slog.String("date", created.Date),
		slog.String("shift_code", created.ShiftCode),
	)
	s.publish(ctx, notification.EventAttendanceClockedIn, created)
	return created, nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, caller user.Caller, req attendance.StartBreakRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	emp, err := s.self(ctx, caller)
	if err != nil {
		return attendance.Record{}, err
	}
	_, loc, err := s.tenant(ctx, caller.CompanyID)
	if err != nil {
		return attendance.Record{}, err
	}

	unlock := s.locks.Lock(emp.ID)
	defer unlock()

	record, err := s.openRecord(ctx, emp.ID, loc)
	if err != nil {
		return attendance.Record{}, err
	}
	if record.ClockOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyClockedOut
	}
	if record.OpenBreak() != nil {
		return attendance.Record{}, attendance.ErrBreakInProgress
	}

	record.Breaks = append(record.Breaks, attendance.Break{Start: s.now(), Reason: req.Reason})
	return s.update(ctx, record)
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, caller user.Caller) (attendance.Record, error) {
	emp, err := s.self(ctx, caller)
	if err != nil {
		return attendance.Record{}, err
	}
	_, loc, err := s.tenant(ctx, caller.CompanyID)
	if err != nil {
		return attendance.Record{}, err
	}

	unlock := s.locks.Lock(emp.ID)
	defer unlock()

	record, err := s.openRecord(ctx, emp.ID, loc)
	if err != nil {
		return attendance.Record{}, err
	}
	open := record.OpenBreak()
	if open == nil {
		return attendance.Record{}, attendance.ErrNoBreakInProgress
	}

	end := s.now()
	open.End = &end
	record.SumBreaks()
	return s.update(ctx, record)
}

// ClockOut implements attendance.AttendanceService. A break still open at
// clock-out ends with it.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, caller user.Caller, req attendance.ClockOutRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	emp, err := s.self(ctx, caller)
	if err != nil {
		return attendance.Record{}, err
	}
	settings, loc, err := s.tenant(ctx, caller.CompanyID)
	if err != nil {
		return attendance.Record{}, err
	}

	unlock := s.locks.Lock(emp.ID)
	defer unlock()

	record, err := s.openRecord(ctx, emp.ID, loc)
	if err != nil {
		return attendance.Record{}, err
	}
	if record.ClockOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyClockedOut
	}

	now := s.now()
	if open := record.OpenBreak(); open != nil {
		open.End = &now
	}
	record.SumBreaks()
	record.ClockOut = &attendance.Punch{Time: now, Source: req.Source, Note: req.Note}

	rs, err := s.resolveShift(ctx, emp, settings)
	if err != nil {
		return attendance.Record{}, err
	}
	if err := recompute(&record, rs, loc); err != nil {
		return attendance.Record{}, err
	}

	updated, err := s.update(ctx, record)
	if err != nil {
		return attendance.Record{}, err
	}

	s.logger.Info("employee clocked out",
		slog.String("attendance_id", updated.ID),
		slog.String("employee_id", updated.EmployeeID),
		slog.Float64("hours_worked", updated.HoursWorked),
		slog.String("status", string(updated.Status)),
	)
	s.publish(ctx, notification.EventAttendanceClockedOut, updated)
	return updated, nil
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, attendance.ErrInvalidTimestamp.WithDetail("value", value)
	}
	return t, nil
}

// UpdateAttendance implements attendance.AttendanceService. Corrections are
// recomputed in full against the employee's current shift.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, caller user.Caller, req attendance.UpdateAttendanceRequest) (attendance.Record, error) {
	if !user.HasPermission(caller.Role, user.PermissionAttendanceEdit) {
		return attendance.Record{}, attendance.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, caller.CompanyID, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if req.ClockIn != nil {
		t, err := parseTimestamp(*req.ClockIn)
		if err != nil {
			return attendance.Record{}, err
		}
		punch := attendance.Punch{Time: t, Source: "correction"}
		record.ClockIn = &punch
	}
	if req.ClockOut != nil {
		t, err := parseTimestamp(*req.ClockOut)
		if err != nil {
			return attendance.Record{}, err
		}
		punch := attendance.Punch{Time: t, Source: "correction"}
		record.ClockOut = &punch
	}
	if req.BreakDurationMinutes != nil {
		record.BreakDurationMinutes = *req.BreakDurationMinutes
	}

	emp, err := s.getEmployee(ctx, caller.CompanyID, record.EmployeeID)
	if err != nil {
		return attendance.Record{}, err
	}
	settings, loc, err := s.tenant(ctx, caller.CompanyID)
	if err != nil {
		return attendance.Record{}, err
	}
	rs, err := s.resolveShift(ctx, emp, settings)
	if err != nil {
		return attendance.Record{}, err
	}
	if err := recompute(&record, rs, loc); err != nil {
		return attendance.Record{}, err
	}

	updated, err := s.update(ctx, record)
	if err != nil {
		return attendance.Record{}, err
	}

	s.logger.Info("attendance corrected",
		slog.String("attendance_id", updated.ID),
		slog.String("employee_id", updated.EmployeeID),
		slog.String("actor", caller.UserID),
	)
	s.publish(ctx, notification.EventAttendanceUpdated, updated)
	return updated, nil
}

func canView(caller user.Caller, employeeID string) bool {
	if caller.IsEmployee(employeeID) {
		return user.HasPermission(caller.Role, user.PermissionAttendanceViewOwn)
	}
	return user.HasPermission(caller.Role, user.PermissionAttendanceViewAll)
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, caller user.Caller, id string) (attendance.Record, error) {
	record, err := s.AttendanceRepository.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if !canView(caller, record.EmployeeID) {
		return attendance.Record{}, attendance.ErrUnauthorized
	}
	return record, nil
}

// ListAttendance implements attendance.AttendanceService. Callers without the
// view-all permission only see their own records.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, caller user.Caller, filter attendance.AttendanceFilter) ([]attendance.Record, error) {
	filter.CompanyID = caller.CompanyID
	if !user.HasPermission(caller.Role, user.PermissionAttendanceViewAll) {
		if !user.HasPermission(caller.Role, user.PermissionAttendanceViewOwn) || caller.EmployeeID == "" {
			return nil, attendance.ErrUnauthorized
		}
		own := caller.EmployeeID
		filter.EmployeeID = &own
	}

	for _, d := range []*string{filter.DateFrom, filter.DateTo} {
		if d == nil {
			continue
		}
		if _, err := calendar.ParseDate(*d, time.UTC); err != nil {
			return nil, err
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && *filter.DateFrom > *filter.DateTo {
		return nil, calendar.ErrInvalidRange
	}

	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, name notification.EventName, record attendance.Record) {
	s.sink.Publish(ctx, record.CompanyID, name, map[string]any{
		"attendance_id":       record.ID,
		"employee_id":         record.EmployeeID,
		"date":                record.Date,
		"status":              string(record.Status),
		"hours_worked":        record.HoursWorked,
		"used_fallback_shift": record.UsedFallbackShift,
	})
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
