package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

type Employee struct {
	ID                 string
	CompanyID          string
	UserID             *string
	FullName           string
	ReportingManagerID *string
	Region             *string
	Role               user.Role
	ShiftCode          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReportsTo reports whether managerID is the recorded reporting manager.
func (e Employee) ReportsTo(managerID string) bool {
	return e.ReportingManagerID != nil && managerID != "" && *e.ReportingManagerID == managerID
}

// IsOwnManager is true when the employee is recorded as reporting to themselves.
func (e Employee) IsOwnManager() bool {
	return e.ReportsTo(e.ID)
}

func (e Employee) RegionCode() string {
	if e.Region == nil {
		return ""
	}
	return *e.Region
}
