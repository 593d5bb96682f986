package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

type HolidayRepository struct {
	mu       sync.RWMutex
	holidays map[string]calendar.HolidayEntry
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{holidays: make(map[string]calendar.HolidayEntry)}
}

func cloneHoliday(h calendar.HolidayEntry) calendar.HolidayEntry {
	h.ApplicableRegions = slices.Clone(h.ApplicableRegions)
	return h
}

// Create implements calendar.HolidayRepository.
func (r *HolidayRepository) Create(_ context.Context, holiday calendar.HolidayEntry) (calendar.HolidayEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.holidays[holiday.ID] = cloneHoliday(holiday)
	return holiday, nil
}

// GetHolidaysInRange implements calendar.HolidayRepository.
func (r *HolidayRepository) GetHolidaysInRange(_ context.Context, companyID string, start, end time.Time) ([]calendar.HolidayEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []calendar.HolidayEntry
	for _, h := range r.holidays {
		if h.CompanyID != companyID {
			continue
		}
		if h.IsRecurring || (calendar.DaysBetween(start, h.Date) >= 0 && calendar.DaysBetween(h.Date, end) >= 0) {
			out = append(out, cloneHoliday(h))
		}
	}
	return out, nil
}

// ListByCompany implements calendar.HolidayRepository.
func (r *HolidayRepository) ListByCompany(_ context.Context, companyID string) ([]calendar.HolidayEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []calendar.HolidayEntry{}
	for _, h := range r.holidays {
		if h.CompanyID == companyID {
			out = append(out, cloneHoliday(h))
		}
	}
	slices.SortFunc(out, func(a, b calendar.HolidayEntry) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

// Delete implements calendar.HolidayRepository.
func (r *HolidayRepository) Delete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holidays[id]
	if !ok || h.CompanyID != companyID {
		return calendar.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}

type SettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]calendar.Settings
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{settings: make(map[string]calendar.Settings)}
}

// GetByCompanyID implements calendar.SettingsRepository.
func (r *SettingsRepository) GetByCompanyID(_ context.Context, companyID string) (calendar.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[companyID]
	if !ok {
		return calendar.Settings{}, calendar.ErrSettingsNotFound
	}
	s.WeekendDays = slices.Clone(s.WeekendDays)
	return s, nil
}

// Upsert implements calendar.SettingsRepository.
func (r *SettingsRepository) Upsert(_ context.Context, settings calendar.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings.WeekendDays = slices.Clone(settings.WeekendDays)
	if settings.WeekendDays == nil {
		settings.WeekendDays = []time.Weekday{}
	}
	r.settings[settings.CompanyID] = settings
	return nil
}

var (
	_ calendar.HolidayRepository  = (*HolidayRepository)(nil)
	_ calendar.SettingsRepository = (*SettingsRepository)(nil)
)
