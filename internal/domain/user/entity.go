package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleAdmin    Role = "admin"    // Company administrator
	RoleHR       Role = "hr"       // Human resources staff
	RoleManager  Role = "manager"  // Can approve leave for direct reports
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Caller is the authenticated identity a request runs as.
type Caller struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       Role
}

// IsHRAdmin reports whether the caller administers people data company-wide.
func (c Caller) IsHRAdmin() bool {
	return c.Role == RoleOwner || c.Role == RoleAdmin || c.Role == RoleHR
}

// IsEmployee reports whether the caller acts as employeeID.
func (c Caller) IsEmployee(employeeID string) bool {
	return c.EmployeeID != "" && c.EmployeeID == employeeID
}
