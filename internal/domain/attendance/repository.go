package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create fails with ErrAlreadyClockedIn when the employee already has a
	// record for the date.
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, companyID, id string) (Record, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (Record, error)
	// Update replaces the record if its stored version still equals
	// record.Version and stores it with the version bumped.
	Update(ctx context.Context, record Record) (Record, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Record, error)
}
