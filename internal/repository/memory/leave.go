package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

type LeaveTypeRepository struct {
	mu    sync.RWMutex
	types map[string]leave.LeaveType
}

func NewLeaveTypeRepository() *LeaveTypeRepository {
	return &LeaveTypeRepository{types: make(map[string]leave.LeaveType)}
}

func (r *LeaveTypeRepository) codeTakenLocked(companyID, code, exceptID string) bool {
	for _, t := range r.types {
		if t.CompanyID == companyID && t.Code == code && t.ID != exceptID {
			return true
		}
	}
	return false
}

// Create implements leave.LeaveTypeRepository.
func (r *LeaveTypeRepository) Create(_ context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codeTakenLocked(leaveType.CompanyID, leaveType.Code, "") {
		return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
	}
	r.types[leaveType.ID] = leaveType
	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *LeaveTypeRepository) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

// GetByCode implements leave.LeaveTypeRepository.
func (r *LeaveTypeRepository) GetByCode(_ context.Context, companyID, code string) (leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.types {
		if t.CompanyID == companyID && t.Code == code {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

// ListByCompany implements leave.LeaveTypeRepository.
func (r *LeaveTypeRepository) ListByCompany(_ context.Context, companyID string) ([]leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []leave.LeaveType{}
	for _, t := range r.types {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b leave.LeaveType) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out, nil
}

// Update implements leave.LeaveTypeRepository.
func (r *LeaveTypeRepository) Update(_ context.Context, leaveType leave.LeaveType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[leaveType.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	if r.codeTakenLocked(leaveType.CompanyID, leaveType.Code, leaveType.ID) {
		return leave.ErrLeaveTypeCodeExists
	}
	r.types[leaveType.ID] = leaveType
	return nil
}

type LeaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}

func cloneRequest(r leave.LeaveRequest) leave.LeaveRequest {
	r.Attachments = slices.Clone(r.Attachments)
	return r
}

func sortRequests(out []leave.LeaveRequest) {
	slices.SortFunc(out, func(a, b leave.LeaveRequest) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Create implements leave.LeaveRequestRepository. Like the database
// exclusion constraint, it refuses a second active request on the same dates.
func (r *LeaveRequestRepository) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.requests {
		if existing.EmployeeID == request.EmployeeID && !existing.IsDeleted &&
			existing.Status.Blocks() && existing.Overlaps(request.StartDate, request.EndDate) {
			return leave.LeaveRequest{}, leave.NewConcurrentModificationError(request.ID)
		}
	}
	if request.Version == 0 {
		request.Version = 1
	}
	r.requests[request.ID] = cloneRequest(request)
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok || req.IsDeleted {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return cloneRequest(req), nil
}

// List implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []leave.LeaveRequest{}
	for _, req := range r.requests {
		switch {
		case req.IsDeleted, req.CompanyID != filter.CompanyID:
			continue
		case filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID:
			continue
		case filter.Status != nil && req.Status != *filter.Status:
			continue
		case filter.LeaveTypeCode != nil && req.LeaveTypeCode != *filter.LeaveTypeCode:
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sortRequests(out)
	return out, nil
}

// ListForLedger implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) ListForLedger(_ context.Context, employeeID, leaveTypeCode string, from, to time.Time) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.IsDeleted || req.EmployeeID != employeeID || req.LeaveTypeCode != leaveTypeCode {
			continue
		}
		if calendar.DaysBetween(from, req.StartDate) >= 0 && calendar.DaysBetween(req.StartDate, to) > 0 {
			out = append(out, cloneRequest(req))
		}
	}
	sortRequests(out)
	return out, nil
}

// FindOverlapping implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) FindOverlapping(_ context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.IsDeleted || req.EmployeeID != employeeID || !req.Status.Blocks() {
			continue
		}
		if req.Overlaps(start, end) {
			out = append(out, cloneRequest(req))
		}
	}
	sortRequests(out)
	return out, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) UpdateStatus(_ context.Context, request leave.LeaveRequest, expected leave.Status, expectedVersion int) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[request.ID]
	if !ok || stored.IsDeleted {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if stored.Status != expected || stored.Version != expectedVersion {
		return leave.LeaveRequest{}, leave.NewConcurrentModificationError(request.ID)
	}

	request.Version = expectedVersion + 1
	r.requests[request.ID] = cloneRequest(request)
	return request, nil
}

// ExistsForLeaveType implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) ExistsForLeaveType(_ context.Context, companyID, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.CompanyID == companyID && req.LeaveTypeCode == code {
			return true, nil
		}
	}
	return false, nil
}

// LockEmployee implements leave.LeaveRequestRepository. The service's
// in-process key lock already serializes writers for this store.
func (r *LeaveRequestRepository) LockEmployee(context.Context, string) error {
	return nil
}

var (
	_ leave.LeaveTypeRepository    = (*LeaveTypeRepository)(nil)
	_ leave.LeaveRequestRepository = (*LeaveRequestRepository)(nil)
)
