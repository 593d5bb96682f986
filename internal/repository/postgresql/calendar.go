package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `id, company_id, holiday_date, name, type, is_recurring,
	COALESCE(recurring_month, 0), COALESCE(recurring_day, 0), regions`

func scanHolidays(rows pgx.Rows) ([]calendar.HolidayEntry, error) {
	defer rows.Close()

	holidays := []calendar.HolidayEntry{}
	for rows.Next() {
		var (
			h           calendar.HolidayEntry
			holidayType string
		)
		if err := rows.Scan(
			&h.ID, &h.CompanyID, &h.Date, &h.Name, &holidayType, &h.IsRecurring,
			&h.RecurringMonth, &h.RecurringDay, &h.ApplicableRegions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Type = calendar.HolidayType(holidayType)
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}
	return holidays, nil
}

// Create implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, holiday calendar.HolidayEntry) (calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	regions := holiday.ApplicableRegions
	if regions == nil {
		regions = []string{}
	}

	var month, day *int
	if holiday.IsRecurring {
		month, day = &holiday.RecurringMonth, &holiday.RecurringDay
	}

	query := `
		INSERT INTO holidays (id, company_id, holiday_date, name, type, is_recurring, recurring_month, recurring_day, regions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.Exec(ctx, query,
		holiday.ID, holiday.CompanyID, holiday.Date.Format(calendar.DateLayout), holiday.Name,
		string(holiday.Type), holiday.IsRecurring, month, day, regions,
	)
	if err != nil {
		return calendar.HolidayEntry{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return holiday, nil
}

// GetHolidaysInRange implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) GetHolidaysInRange(ctx context.Context, companyID string, start, end time.Time) ([]calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE company_id = $1
			AND (is_recurring OR holiday_date BETWEEN $2 AND $3)
		ORDER BY holiday_date
	`
	rows, err := q.Query(ctx, query, companyID, start.Format(calendar.DateLayout), end.Format(calendar.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays in range: %w", err)
	}
	return scanHolidays(rows)
}

// ListByCompany implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE company_id = $1
		ORDER BY holiday_date
	`
	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return scanHolidays(rows)
}

// Delete implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) calendar.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetByCompanyID implements calendar.SettingsRepository.
func (r *settingsRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) (calendar.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, time_zone, weekend_days, default_shift_code
		FROM calendar_settings
		WHERE company_id = $1
	`

	var (
		s       calendar.Settings
		weekend []int32
	)
	err := q.QueryRow(ctx, query, companyID).Scan(&s.CompanyID, &s.TimeZone, &weekend, &s.DefaultShiftCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.Settings{}, calendar.ErrSettingsNotFound
		}
		return calendar.Settings{}, fmt.Errorf("failed to get calendar settings: %w", err)
	}

	s.WeekendDays = make([]time.Weekday, 0, len(weekend))
	for _, d := range weekend {
		s.WeekendDays = append(s.WeekendDays, time.Weekday(d))
	}
	return s, nil
}

// Upsert implements calendar.SettingsRepository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, settings calendar.Settings) error {
	q := GetQuerier(ctx, r.db)

	weekend := make([]int32, 0, len(settings.WeekendDays))
	for _, d := range settings.WeekendDays {
		weekend = append(weekend, int32(d))
	}

	query := `
		INSERT INTO calendar_settings (company_id, time_zone, weekend_days, default_shift_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE
		SET time_zone = EXCLUDED.time_zone,
			weekend_days = EXCLUDED.weekend_days,
			default_shift_code = EXCLUDED.default_shift_code,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, settings.CompanyID, settings.TimeZone, weekend, settings.DefaultShiftCode); err != nil {
		return fmt.Errorf("failed to upsert calendar settings: %w", err)
	}
	return nil
}
