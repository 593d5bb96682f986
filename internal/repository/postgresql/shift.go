package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `
	id, company_id, code, name, start_time, end_time,
	grace_period_minutes, early_departure_allowance_minutes,
	overtime_threshold_hours, min_hours_for_full_day, half_day_threshold_hours,
	is_night_shift, is_active, created_at, updated_at`

func scanShift(row pgx.Row) (shift.ShiftDefinition, error) {
	var (
		s          shift.ShiftDefinition
		start, end string
	)
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Code, &s.Name, &start, &end,
		&s.GracePeriodMinutes, &s.EarlyDepartureAllowanceMinutes,
		&s.OvertimeThresholdHours, &s.MinHoursForFullDay, &s.HalfDayThresholdHours,
		&s.IsNightShift, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.ShiftDefinition{}, err
	}
	if s.StartTime, err = shift.ParseClockTime(start); err != nil {
		return shift.ShiftDefinition{}, fmt.Errorf("shift %s start time: %w", s.Code, err)
	}
	if s.EndTime, err = shift.ParseClockTime(end); err != nil {
		return shift.ShiftDefinition{}, fmt.Errorf("shift %s end time: %w", s.Code, err)
	}
	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, company_id, code, name, start_time, end_time,
			grace_period_minutes, early_departure_allowance_minutes,
			overtime_threshold_hours, min_hours_for_full_day, half_day_threshold_hours,
			is_night_shift, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.CompanyID, s.Code, s.Name, s.StartTime.String(), s.EndTime.String(),
		s.GracePeriodMinutes, s.EarlyDepartureAllowanceMinutes,
		s.OvertimeThresholdHours, s.MinHoursForFullDay, s.HalfDayThresholdHours,
		s.IsNightShift, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == uniqueViolation {
			return shift.ShiftDefinition{}, shift.ErrShiftCodeExists
		}
		return shift.ShiftDefinition{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByCode implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByCode(ctx context.Context, companyID, code string) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE company_id = $1 AND code = $2`, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftDefinition{}, shift.ErrShiftNotFound
		}
		return shift.ShiftDefinition{}, fmt.Errorf("failed to get shift %s: %w", code, err)
	}
	return s, nil
}

// ListByCompany implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE company_id = $1 ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []shift.ShiftDefinition{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}
	return shifts, nil
}
