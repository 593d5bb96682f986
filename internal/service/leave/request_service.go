package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitLeaveRequest implements leave.LeaveService. Checks run in a fixed
// order and the first failure is returned. The balance and overlap checks
// and the insert happen while the employee is locked, so two overlapping
// submissions cannot both succeed.
func (s *LeaveServiceImpl) SubmitLeaveRequest(ctx context.Context, caller user.Caller, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !user.HasPermission(caller.Role, user.PermissionLeaveCreate) {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = caller.EmployeeID
	}
	if employeeID == "" {
		return leave.LeaveRequestResponse{}, user.ErrCallerRequired
	}

	emp, err := s.getEmployee(ctx, caller.CompanyID, employeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !caller.IsEmployee(emp.ID) && !caller.IsHRAdmin() && !emp.ReportsTo(caller.EmployeeID) {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}

	leaveType, err := s.LeaveTypeRepository.GetByCode(ctx, caller.CompanyID, req.LeaveTypeCode)
	if err != nil && !errors.Is(err, leave.ErrLeaveTypeNotFound) {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if err != nil || !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.NewUnknownLeaveTypeError(req.LeaveTypeCode)
	}

	days, err := s.calendarService.CalculateWorkingDays(ctx, caller.CompanyID, req.WorkingDaysRequest(emp.RegionCode()))
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if days.WorkingDays == 0 && !leaveType.AllowZeroDayRequests {
		return leave.LeaveRequestResponse{}, leave.ErrNoWorkingDays.
			WithDetail("start_date", days.StartDate).
			WithDetail("end_date", days.EndDate).
			WithDetail("total_days", days.TotalDays)
	}
	if req.Duration != nil && !decimal.NewFromFloat(*req.Duration).Equal(decimal.NewFromFloat(days.WorkingDays)) {
		return leave.LeaveRequestResponse{}, leave.NewDurationMismatchError(*req.Duration, days.WorkingDays)
	}

	loc, today, err := s.tenantToday(ctx, caller.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	startDate, err := calendar.ParseDate(req.StartDate, loc)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	endDate, err := calendar.ParseDate(req.EndDate, loc)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if leaveType.MinNoticeDays > 0 {
		earliest := today.AddDate(0, 0, leaveType.MinNoticeDays)
		if calendar.DaysBetween(earliest, startDate) < 0 {
			return leave.LeaveRequestResponse{}, leave.NewInsufficientNoticeError(startDate, earliest, leaveType.MinNoticeDays)
		}
	}
	if leaveType.MaxConsecutiveDays > 0 && days.WorkingDays > float64(leaveType.MaxConsecutiveDays) {
		return leave.LeaveRequestResponse{}, leave.NewExceedsMaxConsecutiveDaysError(days.WorkingDays, leaveType.MaxConsecutiveDays)
	}

	unlock := s.locks.Lock(emp.ID)
	defer unlock()

	var created leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LeaveRequestRepository.LockEmployee(ctx, emp.ID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		balance, err := s.ledger.GetBalance(ctx, emp.ID, leaveType, startDate.Year(), today)
		if err != nil {
			return err
		}
		if leaveType.HasQuota && decimal.NewFromFloat(days.WorkingDays).GreaterThan(decimal.NewFromFloat(balance.Available)) {
			return leave.NewInsufficientBalanceError(balance.Available, days.WorkingDays, balance.Used, balance.Pending)
		}

		overlapping, err := s.LeaveRequestRepository.FindOverlapping(ctx, emp.ID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.NewOverlappingRequestError(overlapping[0])
		}

		if leaveType.NeedsDocument(days.WorkingDays) && len(req.Attachments) == 0 {
			return leave.NewDocumentRequiredError(days.WorkingDays, leaveType.DocumentThreshold())
		}
		if leaveType.RequiresApproval && emp.IsOwnManager() {
			return leave.ErrSelfApprovalNotAllowed.WithDetail("employee_id", emp.ID)
		}

		now := s.now()
		request := leave.LeaveRequest{
			ID:               uuid.Must(uuid.NewV7()).String(),
			CompanyID:        caller.CompanyID,
			EmployeeID:       emp.ID,
			LeaveTypeCode:    leaveType.Code,
			StartDate:        startDate,
			EndDate:          endDate,
			IsHalfDay:        req.IsHalfDay,
			Duration:         days.WorkingDays,
			WorkingDays:      days.WorkingDays,
			TotalDays:        days.TotalDays,
			Status:           leave.StatusPending,
			BalanceAtRequest: balance.Available,
			Reason:           req.Reason,
			Attachments:      req.Attachments,
			RequestedBy:      caller.UserID,
			Version:          1,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if req.IsHalfDay {
			request.HalfDayType = req.HalfDayType
		}

		created, err = s.LeaveRequestRepository.Create(ctx, request)
		if err != nil {
			if errors.Is(err, leave.ErrConcurrentModification) {
				return err
			}
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		slog.String("request_id", created.ID),
		slog.String("employee_id", created.EmployeeID),
		slog.String("leave_type_code", created.LeaveTypeCode),
		slog.Float64("duration", created.Duration),
	)
	s.publish(ctx, notification.EventLeaveSubmitted, created, caller.UserID)

	return leave.NewLeaveRequestResponse(created), nil
}

// authorizeDecision guards approve, reject, hold and resume: HR/admin, or the
// requester's reporting manager. Nobody decides on their own request.
func (s *LeaveServiceImpl) authorizeDecision(ctx context.Context, caller user.Caller, request leave.LeaveRequest, action leave.Action) error {
	if caller.IsEmployee(request.EmployeeID) {
		if action == leave.ActionApprove || action == leave.ActionReject {
			return leave.ErrSelfApprovalNotAllowed.WithDetail("request_id", request.ID)
		}
		return leave.ErrUnauthorized
	}
	if caller.IsHRAdmin() {
		return nil
	}
	if !user.HasPermission(caller.Role, user.PermissionLeaveApprove) {
		return leave.ErrUnauthorized
	}

	emp, err := s.getEmployee(ctx, request.CompanyID, request.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.ErrUnauthorized
		}
		return err
	}
	if !emp.ReportsTo(caller.EmployeeID) {
		return leave.ErrUnauthorized
	}
	return nil
}

// applyTransition moves request along action, lets stamp fill the audit
// fields, and writes it only if nobody changed the request since it was read.
func (s *LeaveServiceImpl) applyTransition(
	ctx context.Context,
	caller user.Caller,
	request leave.LeaveRequest,
	action leave.Action,
	event notification.EventName,
	stamp func(r *leave.LeaveRequest, actor string, at time.Time),
) (leave.LeaveRequestResponse, error) {
	next, ok := request.Status.Next(action)
	if !ok {
		return leave.LeaveRequestResponse{}, leave.NewInvalidTransitionError(request.Status, action)
	}

	from, version := request.Status, request.Version
	now := s.now()
	request.Status = next
	request.UpdatedAt = now
	stamp(&request, caller.UserID, now)

	updated, err := s.LeaveRequestRepository.UpdateStatus(ctx, request, from, version)
	if err != nil {
		if errors.Is(err, leave.ErrConcurrentModification) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	s.logger.Info("leave request transitioned",
		slog.String("request_id", updated.ID),
		slog.String("from", string(from)),
		slog.String("to", string(next)),
		slog.String("actor", caller.UserID),
	)
	s.publish(ctx, event, updated, caller.UserID)

	return leave.NewLeaveRequestResponse(updated), nil
}

// ApproveLeaveRequest implements leave.LeaveService. Approval does not
// re-check the balance; the submission snapshot and overlap check are the gate.
func (s *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req leave.ApproveLeaveRequest) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, caller.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := s.authorizeDecision(ctx, caller, request, leave.ActionApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return s.applyTransition(ctx, caller, request, leave.ActionApprove, notification.EventLeaveApproved,
		func(r *leave.LeaveRequest, actor string, at time.Time) {
			r.ApprovedBy = &actor
			r.ApprovedAt = &at
			r.ApprovalComments = req.Comments
		})
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	request, err := s.getRequest(ctx, caller.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := s.authorizeDecision(ctx, caller, request, leave.ActionReject); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return s.applyTransition(ctx, caller, request, leave.ActionReject, notification.EventLeaveRejected,
		func(r *leave.LeaveRequest, actor string, at time.Time) {
			reason := req.Reason
			r.RejectedBy = &actor
			r.RejectedAt = &at
			r.RejectionReason = &reason
		})
}

// HoldLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) HoldLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req leave.HoldLeaveRequest) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, caller.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := s.authorizeDecision(ctx, caller, request, leave.ActionHold); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return s.applyTransition(ctx, caller, request, leave.ActionHold, notification.EventLeaveHeld,
		func(r *leave.LeaveRequest, actor string, at time.Time) {
			r.HeldBy = &actor
			r.HeldAt = &at
			r.HoldReason = req.Reason
		})
}

// ResumeLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) ResumeLeaveRequest(ctx context.Context, caller user.Caller, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, caller.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := s.authorizeDecision(ctx, caller, request, leave.ActionResume); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return s.applyTransition(ctx, caller, request, leave.ActionResume, notification.EventLeaveResumed,
		func(r *leave.LeaveRequest, _ string, _ time.Time) {
			r.HeldBy = nil
			r.HeldAt = nil
			r.HoldReason = nil
		})
}

// CancelLeaveRequest implements leave.LeaveService. The requester may cancel
// their own request and HR/admin may cancel any. Cancelling an approved
// request needs no ledger step: it stops counting as used on the next read.
func (s *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, caller user.Caller, requestID string, req leave.CancelLeaveRequest) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, caller.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !caller.IsEmployee(request.EmployeeID) && !caller.IsHRAdmin() {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}

	switch request.Status {
	case leave.StatusCancelled:
		return leave.LeaveRequestResponse{}, leave.ErrAlreadyCancelled.WithDetail("request_id", request.ID)
	case leave.StatusRejected:
		return leave.LeaveRequestResponse{}, leave.ErrCannotCancelRejected.WithDetail("request_id", request.ID)
	}

	_, today, err := s.tenantToday(ctx, caller.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status == leave.StatusApproved && calendar.DaysBetween(request.StartDate, today) >= 0 {
		return leave.LeaveRequestResponse{}, leave.NewCannotCancelStartedError(request.StartDate)
	}

	leaveType, err := s.LeaveTypeRepository.GetByCode(ctx, caller.CompanyID, request.LeaveTypeCode)
	if err != nil && !errors.Is(err, leave.ErrLeaveTypeNotFound) {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if err == nil && leaveType.CancellationNoticeDays > 0 {
		deadline := request.StartDate.AddDate(0, 0, -leaveType.CancellationNoticeDays)
		if calendar.DaysBetween(deadline, today) > 0 {
			return leave.LeaveRequestResponse{}, leave.NewCancellationNoticeViolationError(request.StartDate, deadline, leaveType.CancellationNoticeDays)
		}
	}

	return s.applyTransition(ctx, caller, request, leave.ActionCancel, notification.EventLeaveCancelled,
		func(r *leave.LeaveRequest, actor string, at time.Time) {
			r.CancelledBy = &actor
			r.CancelledAt = &at
			r.CancellationReason = req.Reason
		})
}
