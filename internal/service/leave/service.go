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
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/keylock"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	calendarService calendar.CalendarService
	ledger          *Ledger
	locks           *keylock.KeyLock
	sink            notification.Sink
	logger          *slog.Logger
	now             func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	calendarService calendar.CalendarService,
	sink notification.Sink,
	logger *slog.Logger,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		calendarService:        calendarService,
		ledger:                 NewLedger(leaveRequestRepository),
		locks:                  keylock.New(),
		sink:                   sink,
		logger:                 logger,
		now:                    time.Now,
	}
}

// tenantToday returns the tenant's zone and today's local midnight in it.
func (s *LeaveServiceImpl) tenantToday(ctx context.Context, companyID string) (*time.Location, time.Time, error) {
	settings, err := s.calendarService.GetSettings(ctx, companyID)
	if err != nil {
		return nil, time.Time{}, err
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, time.Time{}, err
	}
	return loc, calendar.StartOfDay(s.now(), loc), nil
}

// getEmployee loads an employee and hides employees of other tenants.
func (s *LeaveServiceImpl) getEmployee(ctx context.Context, companyID, employeeID string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// canView reports whether caller may read leave data of employeeID.
func canView(caller user.Caller, employeeID string) bool {
	if caller.IsEmployee(employeeID) {
		return user.HasPermission(caller.Role, user.PermissionLeaveViewOwn)
	}
	return user.HasPermission(caller.Role, user.PermissionLeaveViewAll)
}

// CreateLeaveType implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveType(ctx context.Context, caller user.Caller, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if !user.HasPermission(caller.Role, user.PermissionLeaveManageTypes) {
		return leave.LeaveTypeResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	requiresApproval, hasQuota := true, true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}
	if req.HasQuota != nil {
		hasQuota = *req.HasQuota
	}

	now := s.now()
	leaveType := leave.LeaveType{
		ID:                     uuid.Must(uuid.NewV7()).String(),
		CompanyID:              caller.CompanyID,
		Code:                   req.Code,
		Name:                   req.Name,
		AnnualQuota:            req.AnnualQuota,
		IsPaid:                 req.IsPaid,
		RequiresApproval:       requiresApproval,
		IsActive:               true,
		HasQuota:               hasQuota,
		AllowZeroDayRequests:   req.AllowZeroDayRequests,
		CarryForward:           req.CarryForward,
		Encashment:             req.Encashment,
		MinNoticeDays:          req.MinNoticeDays,
		MaxConsecutiveDays:     req.MaxConsecutiveDays,
		RequiresDocument:       req.RequiresDocument,
		DocumentThresholdDays:  req.DocumentThresholdDays,
		CancellationNoticeDays: req.CancellationNoticeDays,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if leaveType.DocumentThresholdDays == 0 {
		leaveType.DocumentThresholdDays = leave.DefaultDocumentThresholdDays
	}

	created, err := s.LeaveTypeRepository.Create(ctx, leaveType)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeCodeExists) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return leave.NewLeaveTypeResponse(created), nil
}

// UpdateLeaveType implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, caller user.Caller, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if !user.HasPermission(caller.Role, user.PermissionLeaveManageTypes) {
		return leave.LeaveTypeResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	leaveType, err := s.getLeaveType(ctx, caller.CompanyID, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if req.Code != nil && *req.Code != leaveType.Code {
		referenced, err := s.LeaveRequestRepository.ExistsForLeaveType(ctx, caller.CompanyID, leaveType.Code)
		if err != nil {
			return leave.LeaveTypeResponse{}, fmt.Errorf("failed to check leave type usage: %w", err)
		}
		if referenced {
			return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeCodeImmutable.WithDetail("code", leaveType.Code)
		}
		leaveType.Code = *req.Code
	}
	if req.Name != nil {
		leaveType.Name = *req.Name
	}
	if req.AnnualQuota != nil {
		leaveType.AnnualQuota = *req.AnnualQuota
	}
	if req.IsActive != nil {
		leaveType.IsActive = *req.IsActive
	}
	if req.RequiresApproval != nil {
		leaveType.RequiresApproval = *req.RequiresApproval
	}
	if req.HasQuota != nil {
		leaveType.HasQuota = *req.HasQuota
	}
	if req.CarryForward != nil {
		leaveType.CarryForward = *req.CarryForward
	}
	if req.Encashment != nil {
		leaveType.Encashment = *req.Encashment
	}
	if req.MinNoticeDays != nil {
		leaveType.MinNoticeDays = *req.MinNoticeDays
	}
	if req.MaxConsecutiveDays != nil {
		leaveType.MaxConsecutiveDays = *req.MaxConsecutiveDays
	}
	if req.RequiresDocument != nil {
		leaveType.RequiresDocument = *req.RequiresDocument
	}
	if req.CancellationNoticeDays != nil {
		leaveType.CancellationNoticeDays = *req.CancellationNoticeDays
	}
	leaveType.UpdatedAt = s.now()

	if err := s.LeaveTypeRepository.Update(ctx, leaveType); err != nil {
		if errors.Is(err, leave.ErrLeaveTypeCodeExists) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return leave.NewLeaveTypeResponse(leaveType), nil
}

func (s *LeaveServiceImpl) getLeaveType(ctx context.Context, companyID, id string) (leave.LeaveType, error) {
	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveType{}, err
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if leaveType.CompanyID != companyID {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return leaveType, nil
}

// GetLeaveType implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveType(ctx context.Context, caller user.Caller, id string) (leave.LeaveTypeResponse, error) {
	leaveType, err := s.getLeaveType(ctx, caller.CompanyID, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(leaveType), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, caller user.Caller) ([]leave.LeaveTypeResponse, error) {
	types, err := s.LeaveTypeRepository.ListByCompany(ctx, caller.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	out := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, leave.NewLeaveTypeResponse(t))
	}
	return out, nil
}

// GetBalance implements leave.LeaveService. An empty employeeID means the
// caller's own balance for the current accounting year.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, caller user.Caller, employeeID, leaveTypeCode string) (leave.Balance, error) {
	if employeeID == "" {
		employeeID = caller.EmployeeID
	}
	if !canView(caller, employeeID) {
		return leave.Balance{}, leave.ErrUnauthorized
	}
	if _, err := s.getEmployee(ctx, caller.CompanyID, employeeID); err != nil {
		return leave.Balance{}, err
	}

	leaveType, err := s.LeaveTypeRepository.GetByCode(ctx, caller.CompanyID, leaveTypeCode)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.Balance{}, leave.NewUnknownLeaveTypeError(leaveTypeCode)
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	_, today, err := s.tenantToday(ctx, caller.CompanyID)
	if err != nil {
		return leave.Balance{}, err
	}
	return s.ledger.GetBalance(ctx, employeeID, leaveType, today.Year(), today)
}

// ListBalances implements leave.LeaveService.
func (s *LeaveServiceImpl) ListBalances(ctx context.Context, caller user.Caller, employeeID string) ([]leave.Balance, error) {
	if employeeID == "" {
		employeeID = caller.EmployeeID
	}
	if !canView(caller, employeeID) {
		return nil, leave.ErrUnauthorized
	}
	if _, err := s.getEmployee(ctx, caller.CompanyID, employeeID); err != nil {
		return nil, err
	}

	types, err := s.LeaveTypeRepository.ListByCompany(ctx, caller.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	_, today, err := s.tenantToday(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}

	balances := make([]leave.Balance, 0, len(types))
	for _, t := range types {
		if !t.IsActive {
			continue
		}
		b, err := s.ledger.GetBalance(ctx, employeeID, t, today.Year(), today)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, caller user.Caller, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, caller.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !canView(caller, request.EmployeeID) {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService. Callers without the
// view-all permission only see their own requests.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, caller user.Caller, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	filter.CompanyID = caller.CompanyID
	if !user.HasPermission(caller.Role, user.PermissionLeaveViewAll) {
		if !user.HasPermission(caller.Role, user.PermissionLeaveViewOwn) || caller.EmployeeID == "" {
			return nil, leave.ErrUnauthorized
		}
		own := caller.EmployeeID
		filter.EmployeeID = &own
	}

	requests, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, leave.NewLeaveRequestResponse(r))
	}
	return out, nil
}

func (s *LeaveServiceImpl) getRequest(ctx context.Context, companyID, requestID string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.CompanyID != companyID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (s *LeaveServiceImpl) publish(ctx context.Context, name notification.EventName, request leave.LeaveRequest, actor string) {
	s.sink.Publish(ctx, request.CompanyID, name, map[string]any{
		"request_id":      request.ID,
		"employee_id":     request.EmployeeID,
		"leave_type_code": request.LeaveTypeCode,
		"start_date":      request.StartDate.Format(calendar.DateLayout),
		"end_date":        request.EndDate.Format(calendar.DateLayout),
		"duration":        request.Duration,
		"status":          string(request.Status),
		"actor":           actor,
	})
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
