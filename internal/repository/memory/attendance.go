package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Record
	byDay   map[string]string
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]attendance.Record),
		byDay:   make(map[string]string),
	}
}

func dayKey(employeeID, date string) string {
	return employeeID + "/" + date
}

func cloneRecord(r attendance.Record) attendance.Record {
	r.Breaks = slices.Clone(r.Breaks)
	if r.ClockIn != nil {
		in := *r.ClockIn
		r.ClockIn = &in
	}
	if r.ClockOut != nil {
		out := *r.ClockOut
		r.ClockOut = &out
	}
	return r
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(record.EmployeeID, record.Date)
	if _, exists := r.byDay[key]; exists {
		return attendance.Record{}, attendance.ErrAlreadyClockedIn
	}
	if record.Version == 0 {
		record.Version = 1
	}
	r.records[record.ID] = cloneRecord(record)
	r.byDay[key] = record.ID
	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByID(_ context.Context, companyID, id string) (attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok || rec.CompanyID != companyID {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return cloneRecord(rec), nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID, date string) (attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[dayKey(employeeID, date)]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return cloneRecord(r.records[id]), nil
}

// Update implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Update(_ context.Context, record attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[record.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if stored.Version != record.Version {
		return attendance.Record{}, attendance.ErrConcurrentUpdate
	}
	record.Version++
	r.records[record.ID] = cloneRecord(record)
	return record, nil
}

// List implements attendance.AttendanceRepository.
func (r *AttendanceRepository) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []attendance.Record{}
	for _, rec := range r.records {
		switch {
		case rec.CompanyID != filter.CompanyID:
			continue
		case filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID:
			continue
		case filter.DateFrom != nil && rec.Date < *filter.DateFrom:
			continue
		case filter.DateTo != nil && rec.Date > *filter.DateTo:
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	slices.SortFunc(out, func(a, b attendance.Record) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.EmployeeID, b.EmployeeID)
	})
	return out, nil
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)
