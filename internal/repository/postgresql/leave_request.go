package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, company_id, employee_id, leave_type_code, start_date, end_date, is_half_day, half_day_type,
	duration, working_days, total_days, status, balance_at_request, reason, attachments, requested_by,
	approved_by, approved_at, approval_comments,
	rejected_by, rejected_at, rejection_reason,
	cancelled_by, cancelled_at, cancellation_reason,
	held_by, held_at, hold_reason,
	version, is_deleted, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		r           leave.LeaveRequest
		halfDayType *string
		status      string
	)
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.EmployeeID, &r.LeaveTypeCode, &r.StartDate, &r.EndDate, &r.IsHalfDay, &halfDayType,
		&r.Duration, &r.WorkingDays, &r.TotalDays, &status, &r.BalanceAtRequest, &r.Reason, &r.Attachments, &r.RequestedBy,
		&r.ApprovedBy, &r.ApprovedAt, &r.ApprovalComments,
		&r.RejectedBy, &r.RejectedAt, &r.RejectionReason,
		&r.CancelledBy, &r.CancelledAt, &r.CancellationReason,
		&r.HeldBy, &r.HeldAt, &r.HoldReason,
		&r.Version, &r.IsDeleted, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if halfDayType != nil {
		r.HalfDayType = calendar.HalfDayType(*halfDayType)
	}
	r.Status = leave.Status(status)
	return r, nil
}

func (r *leaveRequestRepositoryImpl) query(ctx context.Context, sql string, args ...any) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func activeStatuses() []string {
	statuses := leave.ActiveStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Create implements leave.LeaveRequestRepository. The exclusion constraint
// rejects a second active request on the same dates even when two writers
// race past the overlap check.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.Version == 0 {
		request.Version = 1
	}
	attachments := request.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	var halfDayType *string
	if request.HalfDayType != "" {
		t := string(request.HalfDayType)
		halfDayType = &t
	}

	query := `
		INSERT INTO leave_requests (
			id, company_id, employee_id, leave_type_code, start_date, end_date, is_half_day, half_day_type,
			duration, working_days, total_days, status, balance_at_request, reason, attachments, requested_by,
			approved_by, approved_at, approval_comments, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err := q.Exec(ctx, query,
		request.ID, request.CompanyID, request.EmployeeID, request.LeaveTypeCode,
		request.StartDate.Format(calendar.DateLayout), request.EndDate.Format(calendar.DateLayout),
		request.IsHalfDay, halfDayType,
		request.Duration, request.WorkingDays, request.TotalDays, string(request.Status), request.BalanceAtRequest,
		request.Reason, attachments, request.RequestedBy,
		request.ApprovedBy, request.ApprovedAt, request.ApprovalComments, request.Version,
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == exclusionViolation && constraint == "leave_requests_no_overlap" {
			return leave.LeaveRequest{}, leave.NewConcurrentModificationError(request.ID)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanLeaveRequest(q.QueryRow(ctx,
		`SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1 AND NOT is_deleted`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return req, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	conditions := []string{"company_id = $1", "NOT is_deleted"}
	args := []any{filter.CompanyID}
	argIdx := 2

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.LeaveTypeCode != nil {
		conditions = append(conditions, fmt.Sprintf("leave_type_code = $%d", argIdx))
		args = append(args, *filter.LeaveTypeCode)
	}

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY start_date, id`

	requests, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// ListForLedger implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListForLedger(ctx context.Context, employeeID, leaveTypeCode string, from, to time.Time) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND leave_type_code = $2 AND NOT is_deleted
			AND start_date >= $3 AND start_date < $4
		ORDER BY start_date, id
	`
	requests, err := r.query(ctx, query, employeeID, leaveTypeCode,
		from.Format(calendar.DateLayout), to.Format(calendar.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return requests, nil
}

// FindOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND NOT is_deleted
			AND status = ANY($2)
			AND start_date <= $4 AND end_date >= $3
		ORDER BY start_date, id
	`
	requests, err := r.query(ctx, query, employeeID, activeStatuses(),
		start.Format(calendar.DateLayout), end.Format(calendar.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping leave requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest, expected leave.Status, expectedVersion int) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $4,
			approved_by = $5, approved_at = $6, approval_comments = $7,
			rejected_by = $8, rejected_at = $9, rejection_reason = $10,
			cancelled_by = $11, cancelled_at = $12, cancellation_reason = $13,
			held_by = $14, held_at = $15, hold_reason = $16,
			version = version + 1,
			updated_at = $17
		WHERE id = $1 AND status = $2 AND version = $3 AND NOT is_deleted
		RETURNING ` + leaveRequestColumns

	updated, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID, string(expected), expectedVersion, string(request.Status),
		request.ApprovedBy, request.ApprovedAt, request.ApprovalComments,
		request.RejectedBy, request.RejectedAt, request.RejectionReason,
		request.CancelledBy, request.CancelledAt, request.CancellationReason,
		request.HeldBy, request.HeldAt, request.HoldReason,
		request.UpdatedAt,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request %s: %w", request.ID, err)
	}

	// Nothing matched: either the row is gone or another writer moved it.
	if _, getErr := r.GetByID(ctx, request.ID); getErr != nil {
		return leave.LeaveRequest{}, getErr
	}
	return leave.LeaveRequest{}, leave.NewConcurrentModificationError(request.ID)
}

// ExistsForLeaveType implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ExistsForLeaveType(ctx context.Context, companyID, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM leave_requests WHERE company_id = $1 AND leave_type_code = $2)`,
		companyID, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check leave requests for type %s: %w", code, err)
	}
	return exists, nil
}

// LockEmployee implements leave.LeaveRequestRepository with a transaction
// scoped advisory lock, so it must run inside WithinTransaction.
func (r *leaveRequestRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee %s: %w", employeeID, err)
	}
	return nil
}
