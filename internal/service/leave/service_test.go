package leave

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	calendarService "github.com/cmlabs-hris/hris-timekeeping/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyID = "c1"

type recordingSink struct {
	mu     sync.Mutex
	events []notification.EventName
}

func (s *recordingSink) Publish(_ context.Context, _ string, name notification.EventName, _ map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
}

func (s *recordingSink) names() []notification.EventName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.EventName(nil), s.events...)
}

type fixture struct {
	svc      *LeaveServiceImpl
	types    *memory.LeaveTypeRepository
	requests *memory.LeaveRequestRepository
	sink     *recordingSink
}

func strPtr(s string) *string { return &s }

func caller(employeeID string, role user.Role) user.Caller {
	return user.Caller{UserID: "u-" + employeeID, CompanyID: companyID, EmployeeID: employeeID, Role: role}
}

var (
	staff      = caller("e-1", user.RoleEmployee)
	colleague  = caller("e-2", user.RoleEmployee)
	manager    = caller("e-mgr", user.RoleManager)
	otherMgr   = caller("e-mgr2", user.RoleManager)
	hr         = caller("e-hr", user.RoleHR)
	selfLeader = caller("e-self", user.RoleEmployee)
)

// Monday 3 March 2025, 09:00 UTC.
var fixedNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	employees := memory.NewEmployeeRepository()
	for _, e := range []employee.Employee{
		{ID: "e-1", CompanyID: companyID, FullName: "Staff", ReportingManagerID: strPtr("e-mgr"), Role: user.RoleEmployee},
		{ID: "e-2", CompanyID: companyID, FullName: "Colleague", ReportingManagerID: strPtr("e-mgr2"), Role: user.RoleEmployee},
		{ID: "e-mgr", CompanyID: companyID, FullName: "Manager", Role: user.RoleManager},
		{ID: "e-mgr2", CompanyID: companyID, FullName: "Other manager", Role: user.RoleManager},
		{ID: "e-hr", CompanyID: companyID, FullName: "HR", Role: user.RoleHR},
		{ID: "e-self", CompanyID: companyID, FullName: "Founder", ReportingManagerID: strPtr("e-self"), Role: user.RoleEmployee},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	calendars := calendarService.NewCalendarService(
		memory.NewHolidayRepository(), memory.NewSettingsRepository(),
		calendarService.Defaults{TimeZone: "UTC"}, logger,
	)

	f := &fixture{
		types:    memory.NewLeaveTypeRepository(),
		requests: memory.NewLeaveRequestRepository(),
		sink:     &recordingSink{},
	}
	f.svc = NewLeaveService(memory.NewTransactor(), f.types, f.requests, employees, calendars, f.sink, logger)
	f.svc.now = func() time.Time { return fixedNow }

	f.addType(t, annualType())
	return f
}

func (f *fixture) addType(t *testing.T, lt leave.LeaveType) {
	t.Helper()
	lt.ID = "lt-" + lt.Code
	lt.CompanyID = companyID
	lt.IsActive = true
	_, err := f.types.Create(context.Background(), lt)
	require.NoError(t, err)
}

func (f *fixture) submit(c user.Caller, code, start, end string) (leave.LeaveRequestResponse, error) {
	return f.svc.SubmitLeaveRequest(context.Background(), c, leave.SubmitLeaveRequest{
		LeaveTypeCode: code,
		StartDate:     start,
		EndDate:       end,
	})
}

func (f *fixture) mustSubmit(t *testing.T, c user.Caller, code, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	res, err := f.submit(c, code, start, end)
	require.NoError(t, err)
	return res
}

func (f *fixture) balance(t *testing.T) leave.Balance {
	t.Helper()
	b, err := f.svc.GetBalance(context.Background(), staff, "e-1", "ANNUAL")
	require.NoError(t, err)
	return b
}

func details(t *testing.T, err error) map[string]any {
	t.Helper()
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr), "expected an apperror, got %v", err)
	return appErr.Details
}

func TestLeaveService_Submit_Success(t *testing.T) {
	f := newFixture(t)

	res := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-14")
	assert.Equal(t, leave.StatusPending, res.Status)
	assert.Equal(t, 5.0, res.Duration)
	assert.Equal(t, 5, res.TotalDays)
	assert.Equal(t, 12.0, res.BalanceAtRequest)
	assert.Equal(t, "u-e-1", res.RequestedBy)
	assert.Equal(t, []notification.EventName{notification.EventLeaveSubmitted}, f.sink.names())

	b := f.balance(t)
	assert.Equal(t, 5.0, b.Pending)
	assert.Equal(t, 7.0, b.Available)
}

func TestLeaveService_Submit_HalfDay(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.SubmitLeaveRequest(context.Background(), staff, leave.SubmitLeaveRequest{
		LeaveTypeCode: "ANNUAL",
		StartDate:     "2025-03-10",
		EndDate:       "2025-03-10",
		IsHalfDay:     true,
		HalfDayType:   calendar.HalfDayMorning,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Duration)
	assert.Equal(t, "morning", res.HalfDayType)
}

func TestLeaveService_Submit_QuotaScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	used := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")
	_, err := f.svc.ApproveLeaveRequest(ctx, manager, used.ID, leave.ApproveLeaveRequest{})
	require.NoError(t, err)

	b := f.balance(t)
	require.Equal(t, 2.0, b.Used)
	require.Equal(t, 0.0, b.Pending)

	f.mustSubmit(t, staff, "ANNUAL", "2025-03-17", "2025-03-21")
	b = f.balance(t)
	assert.Equal(t, 5.0, b.Pending)
	assert.Equal(t, 5.0, b.Available)

	_, err = f.submit(staff, "ANNUAL", "2025-03-24", "2025-04-02")
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Equal(t, map[string]any{"available": 5.0, "requested": 8.0, "used": 2.0, "pending": 5.0}, details(t, err))
	assert.Contains(t, err.Error(), "available 5, requested 8, used 2, pending 5")
}

func TestLeaveService_Submit_ConcurrentBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	used := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")
	_, err := f.svc.ApproveLeaveRequest(ctx, manager, used.ID, leave.ApproveLeaveRequest{})
	require.NoError(t, err)

	windows := [][2]string{{"2025-03-17", "2025-03-21"}, {"2025-03-24", "2025-04-02"}}
	errs := make([]error, len(windows))
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.submit(staff, "ANNUAL", w[0], w[1])
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	}
	assert.Equal(t, 1, succeeded)
}

func TestLeaveService_Submit_ConcurrentOverlap(t *testing.T) {
	f := newFixture(t)

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.submit(staff, "ANNUAL", "2025-03-10", "2025-03-12")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		kind := apperror.KindOf(err)
		assert.True(t, kind == apperror.KindOverlappingRequest || kind == apperror.KindConcurrentModification, "unexpected error %v", err)
	}
	assert.Equal(t, 1, succeeded)

	list, err := f.svc.ListLeaveRequests(context.Background(), hr, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLeaveService_Submit_Failures(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{Code: "NOTICE", AnnualQuota: 10, HasQuota: true, MinNoticeDays: 7})
	f.addType(t, leave.LeaveType{Code: "SHORT", AnnualQuota: 10, HasQuota: true, MaxConsecutiveDays: 3})
	f.addType(t, leave.LeaveType{Code: "SICK", HasQuota: false, RequiresDocument: true})
	f.addType(t, leave.LeaveType{Code: "MGR", AnnualQuota: 10, HasQuota: true, RequiresApproval: true})
	f.addType(t, leave.LeaveType{Code: "ZERO", HasQuota: false, AllowZeroDayRequests: true})
	f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-12")

	inactive := leave.LeaveType{ID: "lt-OLD", CompanyID: companyID, Code: "OLD", HasQuota: false}
	_, err := f.types.Create(context.Background(), inactive)
	require.NoError(t, err)

	five := 5.0
	tests := []struct {
		name   string
		caller user.Caller
		req    leave.SubmitLeaveRequest
		want   error
	}{
		{"unknown type", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "NOPE", StartDate: "2025-03-17", EndDate: "2025-03-17"}, leave.ErrUnknownLeaveType},
		{"inactive type", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "OLD", StartDate: "2025-03-17", EndDate: "2025-03-17"}, leave.ErrUnknownLeaveType},
		{"inverted range", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "ANNUAL", StartDate: "2025-03-18", EndDate: "2025-03-17"}, calendar.ErrInvalidRange},
		{"weekend only", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "ANNUAL", StartDate: "2025-03-15", EndDate: "2025-03-16"}, leave.ErrNoWorkingDays},
		{"matching duration", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "ANNUAL", StartDate: "2025-03-17", EndDate: "2025-03-23", Duration: &five}, nil},
		{"wrong duration", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "ANNUAL", StartDate: "2025-03-17", EndDate: "2025-03-24", Duration: &five}, leave.ErrDurationMismatch},
		{"short notice", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "NOTICE", StartDate: "2025-03-07", EndDate: "2025-03-07"}, leave.ErrInsufficientNotice},
		{"too long", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "SHORT", StartDate: "2025-03-24", EndDate: "2025-03-27"}, leave.ErrExceedsMaxConsecutiveDays},
		{"overlap", staff, leave.SubmitLeaveRequest{LeaveTypeCode: "ANNUAL", StartDate: "2025-03-12", EndDate: "2025-03-13"}, leave.ErrOverlappingRequest},
		{"missing document", colleague, leave.SubmitLeaveRequest{LeaveTypeCode: "SICK", StartDate: "2025-03-10", EndDate: "2025-03-12"}, leave.ErrDocumentRequired},
		{"own manager", selfLeader, leave.SubmitLeaveRequest{LeaveTypeCode: "MGR", StartDate: "2025-03-10", EndDate: "2025-03-10"}, leave.ErrSelfApprovalNotAllowed},
		{"for a stranger", colleague, leave.SubmitLeaveRequest{EmployeeID: "e-1", LeaveTypeCode: "ANNUAL", StartDate: "2025-03-24", EndDate: "2025-03-24"}, leave.ErrUnauthorized},
		{"zero days allowed", colleague, leave.SubmitLeaveRequest{LeaveTypeCode: "ZERO", StartDate: "2025-03-15", EndDate: "2025-03-15"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitLeaveRequest(context.Background(), tt.caller, tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLeaveService_Submit_ErrorDetails(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{Code: "NOTICE", AnnualQuota: 10, HasQuota: true, MinNoticeDays: 7})
	first := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-12")

	_, err := f.submit(staff, "ANNUAL", "2025-03-12", "2025-03-14")
	require.ErrorIs(t, err, leave.ErrOverlappingRequest)
	d := details(t, err)
	assert.Equal(t, first.ID, d["conflicting_request_id"])
	assert.Equal(t, "2025-03-10", d["conflicting_start_date"])
	assert.Equal(t, "2025-03-12", d["conflicting_end_date"])
	assert.Equal(t, "pending", d["conflicting_status"])

	_, err = f.submit(staff, "NOTICE", "2025-03-07", "2025-03-07")
	require.ErrorIs(t, err, leave.ErrInsufficientNotice)
	assert.Equal(t, "2025-03-10", details(t, err)["earliest_start_date"])

	// exactly at the notice boundary
	_, err = f.submit(colleague, "NOTICE", "2025-03-10", "2025-03-10")
	assert.NoError(t, err)

	four := 4.0
	_, err = f.svc.SubmitLeaveRequest(context.Background(), staff, leave.SubmitLeaveRequest{
		LeaveTypeCode: "ANNUAL", StartDate: "2025-03-24", EndDate: "2025-03-28", Duration: &four,
	})
	require.ErrorIs(t, err, leave.ErrDurationMismatch)
	assert.Equal(t, 5.0, details(t, err)["calculated"])
}

func TestLeaveService_Submit_Documents(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{Code: "SICK", HasQuota: false, RequiresDocument: true})
	ctx := context.Background()

	_, err := f.submit(staff, "SICK", "2025-03-10", "2025-03-11")
	assert.NoError(t, err, "below the threshold no document is needed")

	_, err = f.svc.SubmitLeaveRequest(ctx, staff, leave.SubmitLeaveRequest{
		LeaveTypeCode: "SICK", StartDate: "2025-03-17", EndDate: "2025-03-19",
		Attachments: []string{"certificate.pdf"},
	})
	assert.NoError(t, err)
}

func TestLeaveService_Submit_OnBehalf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byHR, err := f.svc.SubmitLeaveRequest(ctx, hr, leave.SubmitLeaveRequest{
		EmployeeID: "e-1", LeaveTypeCode: "ANNUAL", StartDate: "2025-03-10", EndDate: "2025-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "e-1", byHR.EmployeeID)
	assert.Equal(t, "u-e-hr", byHR.RequestedBy)

	_, err = f.svc.SubmitLeaveRequest(ctx, manager, leave.SubmitLeaveRequest{
		EmployeeID: "e-1", LeaveTypeCode: "ANNUAL", StartDate: "2025-03-11", EndDate: "2025-03-11",
	})
	assert.NoError(t, err)

	_, err = f.svc.SubmitLeaveRequest(ctx, otherMgr, leave.SubmitLeaveRequest{
		EmployeeID: "e-1", LeaveTypeCode: "ANNUAL", StartDate: "2025-03-12", EndDate: "2025-03-12",
	})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestLeaveService_Approve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

	_, err := f.svc.ApproveLeaveRequest(ctx, staff, req.ID, leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrSelfApprovalNotAllowed)

	_, err = f.svc.ApproveLeaveRequest(ctx, colleague, req.ID, leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	_, err = f.svc.ApproveLeaveRequest(ctx, otherMgr, req.ID, leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	approved, err := f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{Comments: strPtr("enjoy")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "u-e-mgr", *approved.ApprovedBy)
	assert.Equal(t, fixedNow, *approved.ApprovedAt)
	assert.Equal(t, "enjoy", *approved.ApprovalComments)
	assert.Equal(t, 2, approved.Version)

	_, err = f.svc.ApproveLeaveRequest(ctx, hr, req.ID, leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	_, err = f.svc.ApproveLeaveRequest(ctx, hr, "missing", leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

	_, err := f.svc.RejectLeaveRequest(ctx, manager, req.ID, leave.RejectLeaveRequest{Reason: "  "})
	assert.ErrorIs(t, err, leave.ErrRejectionReasonRequired)

	_, err = f.svc.RejectLeaveRequest(ctx, staff, req.ID, leave.RejectLeaveRequest{Reason: "no"})
	assert.ErrorIs(t, err, leave.ErrSelfApprovalNotAllowed)

	rejected, err := f.svc.RejectLeaveRequest(ctx, hr, req.ID, leave.RejectLeaveRequest{Reason: "busy season"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, "busy season", *rejected.RejectionReason)

	_, err = f.svc.RejectLeaveRequest(ctx, hr, req.ID, leave.RejectLeaveRequest{Reason: "again"})
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	_, err = f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrCannotCancelRejected)

	// rejected requests free their dates
	_, err = f.submit(staff, "ANNUAL", "2025-03-10", "2025-03-11")
	assert.NoError(t, err)
}

func TestLeaveService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

	_, err := f.svc.CancelLeaveRequest(ctx, colleague, req.ID, leave.CancelLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	cancelled, err := f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{Reason: strPtr("plans changed")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	assert.Equal(t, "u-e-1", *cancelled.CancelledBy)

	_, err = f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrAlreadyCancelled)

	other := f.mustSubmit(t, staff, "ANNUAL", "2025-03-17", "2025-03-17")
	_, err = f.svc.CancelLeaveRequest(ctx, hr, other.ID, leave.CancelLeaveRequest{})
	assert.NoError(t, err)
}

func TestLeaveService_Cancel_Started(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")
	_, err := f.svc.ApproveLeaveRequest(ctx, manager, approved.ID, leave.ApproveLeaveRequest{})
	require.NoError(t, err)
	pending := f.mustSubmit(t, staff, "ANNUAL", "2025-03-12", "2025-03-12")

	f.svc.now = func() time.Time { return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) }

	_, err = f.svc.CancelLeaveRequest(ctx, staff, approved.ID, leave.CancelLeaveRequest{})
	require.ErrorIs(t, err, leave.ErrCannotCancelStarted)
	assert.Equal(t, "2025-03-10", details(t, err)["start_date"])

	_, err = f.svc.CancelLeaveRequest(ctx, staff, pending.ID, leave.CancelLeaveRequest{})
	assert.NoError(t, err)
}

func TestLeaveService_Cancel_NoticePeriod(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{Code: "TRIP", AnnualQuota: 10, HasQuota: true, CancellationNoticeDays: 5})
	ctx := context.Background()

	first := f.mustSubmit(t, staff, "TRIP", "2025-03-10", "2025-03-10")
	second := f.mustSubmit(t, staff, "TRIP", "2025-03-11", "2025-03-11")

	// deadline for the 10th is the 5th
	f.svc.now = func() time.Time { return time.Date(2025, 3, 5, 17, 0, 0, 0, time.UTC) }
	_, err := f.svc.CancelLeaveRequest(ctx, staff, first.ID, leave.CancelLeaveRequest{})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC) }
	_, err = f.svc.CancelLeaveRequest(ctx, staff, second.ID, leave.CancelLeaveRequest{})
	require.ErrorIs(t, err, leave.ErrCancellationNoticeViolation)
	assert.Equal(t, "2025-03-06", details(t, err)["cancellation_deadline"])
}

func TestLeaveService_HoldAndResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

	_, err := f.svc.HoldLeaveRequest(ctx, staff, req.ID, leave.HoldLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	held, err := f.svc.HoldLeaveRequest(ctx, manager, req.ID, leave.HoldLeaveRequest{Reason: strPtr("checking coverage")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusOnHold, held.Status)

	// on hold still reserves balance and dates
	assert.Equal(t, 2.0, f.balance(t).Pending)
	_, err = f.submit(staff, "ANNUAL", "2025-03-11", "2025-03-11")
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)

	_, err = f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	resumed, err := f.svc.ResumeLeaveRequest(ctx, hr, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resumed.Status)
	assert.Nil(t, resumed.HoldReason)

	_, err = f.svc.ResumeLeaveRequest(ctx, hr, req.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	_, err = f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{})
	require.NoError(t, err)

	assert.Equal(t, []notification.EventName{
		notification.EventLeaveSubmitted,
		notification.EventLeaveHeld,
		notification.EventLeaveResumed,
		notification.EventLeaveApproved,
	}, f.sink.names())
}

func TestLeaveService_CancelFromHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

	_, err := f.svc.HoldLeaveRequest(ctx, hr, req.ID, leave.HoldLeaveRequest{})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0.0, f.balance(t).Pending)
}

func TestLeaveService_BalanceRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.balance(t)

	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-12")
	_, err := f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, f.balance(t).Used)

	_, err = f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
	require.NoError(t, err)

	assert.Equal(t, before, f.balance(t))
}

func TestLeaveService_CachedBalanceMatchesDerivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	projected := f.balance(t)
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-12")
	projected = ProjectBalance(projected, "", leave.StatusPending, req.Duration)
	assert.Equal(t, projected, f.balance(t), "after submit")

	steps := []struct {
		name string
		run  func() (leave.LeaveRequestResponse, error)
	}{
		{"hold", func() (leave.LeaveRequestResponse, error) {
			return f.svc.HoldLeaveRequest(ctx, hr, req.ID, leave.HoldLeaveRequest{})
		}},
		{"resume", func() (leave.LeaveRequestResponse, error) {
			return f.svc.ResumeLeaveRequest(ctx, hr, req.ID)
		}},
		{"approve", func() (leave.LeaveRequestResponse, error) {
			return f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{})
		}},
		{"cancel", func() (leave.LeaveRequestResponse, error) {
			return f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
		}},
	}

	from := leave.StatusPending
	for _, step := range steps {
		res, err := step.run()
		require.NoError(t, err, step.name)
		projected = ProjectBalance(projected, from, res.Status, res.Duration)
		from = res.Status
		assert.Equal(t, projected, f.balance(t), "after %s", step.name)
	}
}

type staleRequests struct {
	leave.LeaveRequestRepository
	snapshot leave.LeaveRequest
}

func (s staleRequests) GetByID(context.Context, string) (leave.LeaveRequest, error) {
	return s.snapshot, nil
}

func TestLeaveService_StaleTransitionFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

	snapshot, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)

	_, err = f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{})
	require.NoError(t, err)

	stale := *f.svc
	stale.LeaveRequestRepository = staleRequests{LeaveRequestRepository: f.requests, snapshot: snapshot}

	_, err = stale.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
	require.ErrorIs(t, err, leave.ErrConcurrentModification)
	assert.Equal(t, req.ID, details(t, err)["request_id"])

	current, err := f.svc.GetLeaveRequest(ctx, staff, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, current.Status)
}

func TestLeaveService_ApproveCancelRace(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		ctx := context.Background()
		req := f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-11")

		var (
			wg                    sync.WaitGroup
			approveErr, cancelErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, approveErr = f.svc.ApproveLeaveRequest(ctx, manager, req.ID, leave.ApproveLeaveRequest{})
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = f.svc.CancelLeaveRequest(ctx, staff, req.ID, leave.CancelLeaveRequest{})
		}()
		wg.Wait()

		final, err := f.svc.GetLeaveRequest(ctx, staff, req.ID)
		require.NoError(t, err)

		for _, err := range []error{approveErr, cancelErr} {
			if err != nil {
				kind := apperror.KindOf(err)
				assert.True(t, kind == apperror.KindConcurrentModification || kind == apperror.KindInvalidTransition, "unexpected error %v", err)
			}
		}
		switch {
		case approveErr == nil && cancelErr == nil:
			assert.Equal(t, leave.StatusCancelled, final.Status)
			assert.Equal(t, 3, final.Version)
		case approveErr == nil:
			assert.Equal(t, leave.StatusApproved, final.Status)
		case cancelErr == nil:
			assert.Equal(t, leave.StatusCancelled, final.Status)
		default:
			t.Fatalf("both transitions failed: %v, %v", approveErr, cancelErr)
		}
	}
}

func TestLeaveService_NoQuotaGate(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{Code: "UNPAID", HasQuota: false})

	res := f.mustSubmit(t, staff, "UNPAID", "2025-03-10", "2025-04-04")
	assert.Equal(t, 20.0, res.Duration)
}

func TestLeaveService_Balances(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{Code: "SICK", HasQuota: false})
	ctx := context.Background()

	_, err := f.svc.GetBalance(ctx, colleague, "e-1", "ANNUAL")
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	_, err = f.svc.GetBalance(ctx, manager, "e-1", "NOPE")
	assert.ErrorIs(t, err, leave.ErrUnknownLeaveType)

	own, err := f.svc.GetBalance(ctx, staff, "", "ANNUAL")
	require.NoError(t, err)
	assert.Equal(t, 2025, own.Year)
	assert.Equal(t, 12.0, own.Available)

	list, err := f.svc.ListBalances(ctx, hr, "e-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ANNUAL", list[0].LeaveTypeCode)
	assert.False(t, list[1].HasQuota)
}

func TestLeaveService_Balances_Encashable(t *testing.T) {
	f := newFixture(t)
	f.addType(t, leave.LeaveType{
		Code: "PAIDOUT", AnnualQuota: 10, HasQuota: true,
		Encashment: leave.EncashmentPolicy{Allowed: true, MaxDays: 5, Ratio: 0.5},
	})
	ctx := context.Background()

	b, err := f.svc.GetBalance(ctx, staff, "", "PAIDOUT")
	require.NoError(t, err)
	assert.Equal(t, 2.5, b.EncashableDays)

	annual, err := f.svc.GetBalance(ctx, staff, "", "ANNUAL")
	require.NoError(t, err)
	assert.Zero(t, annual.EncashableDays)

	list, err := f.svc.ListBalances(ctx, hr, "e-1")
	require.NoError(t, err)
	for _, item := range list {
		if item.LeaveTypeCode == "PAIDOUT" {
			assert.Equal(t, 2.5, item.EncashableDays)
		}
	}
}

func TestLeaveService_ListVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustSubmit(t, staff, "ANNUAL", "2025-03-10", "2025-03-10")
	other := f.mustSubmit(t, colleague, "ANNUAL", "2025-03-10", "2025-03-10")

	own, err := f.svc.ListLeaveRequests(ctx, staff, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "e-1", own[0].EmployeeID)

	all, err := f.svc.ListLeaveRequests(ctx, hr, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.GetLeaveRequest(ctx, staff, other.ID)
	assert.ErrorIs(t, err, leave.ErrUnauthorized)

	outsider := hr
	outsider.CompanyID = "c2"
	_, err = f.svc.GetLeaveRequest(ctx, outsider, other.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_LeaveTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateLeaveType(ctx, staff, leave.CreateLeaveTypeRequest{Code: "X", Name: "X"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.CreateLeaveType(ctx, hr, leave.CreateLeaveTypeRequest{Code: "ANNUAL", Name: "Duplicate"})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeCodeExists)

	created, err := f.svc.CreateLeaveType(ctx, hr, leave.CreateLeaveTypeRequest{Code: "STUDY", Name: "Study leave", AnnualQuota: 5})
	require.NoError(t, err)
	assert.True(t, created.RequiresApproval)
	assert.True(t, created.HasQuota)
	assert.True(t, created.IsActive)
	assert.Equal(t, leave.DefaultDocumentThresholdDays, created.DocumentThresholdDays)

	renamed, err := f.svc.UpdateLeaveType(ctx, hr, leave.UpdateLeaveTypeRequest{ID: created.ID, Code: strPtr("LEARN")})
	require.NoError(t, err)
	assert.Equal(t, "LEARN", renamed.Code)

	f.mustSubmit(t, staff, "LEARN", "2025-03-10", "2025-03-10")
	_, err = f.svc.UpdateLeaveType(ctx, hr, leave.UpdateLeaveTypeRequest{ID: created.ID, Code: strPtr("STUDY")})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeCodeImmutable)

	deactivated, err := f.svc.UpdateLeaveType(ctx, hr, leave.UpdateLeaveTypeRequest{ID: created.ID, IsActive: new(bool)})
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	_, err = f.submit(staff, "LEARN", "2025-03-17", "2025-03-17")
	assert.ErrorIs(t, err, leave.ErrUnknownLeaveType)

	types, err := f.svc.ListLeaveTypes(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}
