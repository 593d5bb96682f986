package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday HolidayEntry) (HolidayEntry, error)
	// GetHolidaysInRange returns dated holidays inside [start, end] plus every
	// recurring holiday of the company; callers match recurring entries per day.
	GetHolidaysInRange(ctx context.Context, companyID string, start, end time.Time) ([]HolidayEntry, error)
	ListByCompany(ctx context.Context, companyID string) ([]HolidayEntry, error)
	Delete(ctx context.Context, companyID, id string) error
}

type SettingsRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (Settings, error)
	Upsert(ctx context.Context, settings Settings) error
}
