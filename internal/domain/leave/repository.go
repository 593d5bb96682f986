package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, companyID, code string) (LeaveType, error)
	ListByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// ListForLedger returns every non-deleted request of the employee and
	// leave type whose start date falls in [from, to).
	ListForLedger(ctx context.Context, employeeID, leaveTypeCode string, from, to time.Time) ([]LeaveRequest, error)
	// FindOverlapping returns active requests of the employee whose dates
	// intersect [start, end].
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
	// UpdateStatus writes the transition fields of request only if the stored
	// row is still at expected status and version, then bumps the version.
	UpdateStatus(ctx context.Context, request LeaveRequest, expected Status, expectedVersion int) (LeaveRequest, error)
	ExistsForLeaveType(ctx context.Context, companyID, code string) (bool, error)
	// LockEmployee serializes writers for one employee until the surrounding
	// transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error
}
