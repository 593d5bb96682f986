package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

type LeaveService interface {
	// Type
	CreateLeaveType(ctx context.Context, caller user.Caller, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, caller user.Caller, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetLeaveType(ctx context.Context, caller user.Caller, id string) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context, caller user.Caller) ([]LeaveTypeResponse, error)
	// Balance
	GetBalance(ctx context.Context, caller user.Caller, employeeID, leaveTypeCode string) (Balance, error)
	ListBalances(ctx context.Context, caller user.Caller, employeeID string) ([]Balance, error)
	// Request
	SubmitLeaveRequest(ctx context.Context, caller user.Caller, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req ApproveLeaveRequest) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req RejectLeaveRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req CancelLeaveRequest) (LeaveRequestResponse, error)
	HoldLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req HoldLeaveRequest) (LeaveRequestResponse, error)
	ResumeLeaveRequest(ctx context.Context, caller user.Caller, requestID string) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, caller user.Caller, requestID string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, caller user.Caller, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
}
