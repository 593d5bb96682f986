package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/google/uuid"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewShiftService(shiftRepository shift.ShiftRepository, logger *slog.Logger) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		ShiftRepository: shiftRepository,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateShift implements shift.ShiftService. A shift whose end is earlier
// than its start is stored as a night shift.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, caller user.Caller, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if !user.HasPermission(caller.Role, user.PermissionShiftManage) {
		return shift.ShiftResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	start, err := shift.ParseClockTime(req.StartTime)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	end, err := shift.ParseClockTime(req.EndTime)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	now := s.now()
	definition := shift.ShiftDefinition{
		ID:                             uuid.Must(uuid.NewV7()).String(),
		CompanyID:                      caller.CompanyID,
		Code:                           req.Code,
		Name:                           req.Name,
		StartTime:                      start,
		EndTime:                        end,
		GracePeriodMinutes:             req.GracePeriodMinutes,
		EarlyDepartureAllowanceMinutes: req.EarlyDepartureAllowanceMinutes,
		OvertimeThresholdHours:         req.OvertimeThresholdHours,
		MinHoursForFullDay:             req.MinHoursForFullDay,
		HalfDayThresholdHours:          req.HalfDayThresholdHours,
		IsActive:                       true,
		CreatedAt:                      now,
		UpdatedAt:                      now,
	}
	definition.IsNightShift = definition.CrossesMidnight()
	if definition.OvertimeThresholdHours == 0 {
		definition.OvertimeThresholdHours = definition.MinHoursForFullDay
	}

	created, err := s.ShiftRepository.Create(ctx, definition)
	if err != nil {
		if errors.Is(err, shift.ErrShiftCodeExists) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	s.logger.Info("shift created",
		slog.String("company_id", created.CompanyID),
		slog.String("code", created.Code),
		slog.Bool("night_shift", created.IsNightShift),
	)
	return shift.NewShiftResponse(created), nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, caller user.Caller, code string) (shift.ShiftResponse, error) {
	definition, err := s.ShiftRepository.GetByCode(ctx, caller.CompanyID, code)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift.NewShiftResponse(definition), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, caller user.Caller) ([]shift.ShiftResponse, error) {
	definitions, err := s.ShiftRepository.ListByCompany(ctx, caller.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	out := make([]shift.ShiftResponse, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, shift.NewShiftResponse(d))
	}
	return out, nil
}

var _ shift.ShiftService = (*ShiftServiceImpl)(nil)
