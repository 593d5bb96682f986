package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `
	id, company_id, code, name, annual_quota,
	is_paid, requires_approval, is_active, has_quota, allow_zero_day_requests,
	carry_forward_allowed, carry_forward_max_days, carry_forward_expiry_days,
	encashment_allowed, encashment_max_days, encashment_ratio,
	min_notice_days, max_consecutive_days, requires_document, document_threshold_days, cancellation_notice_days,
	created_at, updated_at`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.CompanyID, &lt.Code, &lt.Name, &lt.AnnualQuota,
		&lt.IsPaid, &lt.RequiresApproval, &lt.IsActive, &lt.HasQuota, &lt.AllowZeroDayRequests,
		&lt.CarryForward.Allowed, &lt.CarryForward.MaxDays, &lt.CarryForward.ExpiryDays,
		&lt.Encashment.Allowed, &lt.Encashment.MaxDays, &lt.Encashment.Ratio,
		&lt.MinNoticeDays, &lt.MaxConsecutiveDays, &lt.RequiresDocument, &lt.DocumentThresholdDays, &lt.CancellationNoticeDays,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

func (l *leaveTypeRepositoryImpl) getOne(ctx context.Context, where string, args ...any) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	lt, err := scanLeaveType(q.QueryRow(ctx, `SELECT `+leaveTypeColumns+` FROM leave_types WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_types (
			id, company_id, code, name, annual_quota,
			is_paid, requires_approval, is_active, has_quota, allow_zero_day_requests,
			carry_forward_allowed, carry_forward_max_days, carry_forward_expiry_days,
			encashment_allowed, encashment_max_days, encashment_ratio,
			min_notice_days, max_consecutive_days, requires_document, document_threshold_days, cancellation_notice_days
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		leaveType.ID, leaveType.CompanyID, leaveType.Code, leaveType.Name, leaveType.AnnualQuota,
		leaveType.IsPaid, leaveType.RequiresApproval, leaveType.IsActive, leaveType.HasQuota, leaveType.AllowZeroDayRequests,
		leaveType.CarryForward.Allowed, leaveType.CarryForward.MaxDays, leaveType.CarryForward.ExpiryDays,
		leaveType.Encashment.Allowed, leaveType.Encashment.MaxDays, leaveType.Encashment.Ratio,
		leaveType.MinNoticeDays, leaveType.MaxConsecutiveDays, leaveType.RequiresDocument,
		leaveType.DocumentThresholdDays, leaveType.CancellationNoticeDays,
	).Scan(&leaveType.CreatedAt, &leaveType.UpdatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == uniqueViolation {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	return l.getOne(ctx, `id = $1`, id)
}

// GetByCode implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByCode(ctx context.Context, companyID, code string) (leave.LeaveType, error) {
	return l.getOne(ctx, `company_id = $1 AND code = $2`, companyID, code)
}

// ListByCompany implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	rows, err := q.Query(ctx, `SELECT `+leaveTypeColumns+` FROM leave_types WHERE company_id = $1 ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	types := []leave.LeaveType{}
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave types: %w", err)
	}

	return types, nil
}

// Update implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, leaveType leave.LeaveType) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_types
		SET code = $2, name = $3, annual_quota = $4,
			is_paid = $5, requires_approval = $6, is_active = $7, has_quota = $8, allow_zero_day_requests = $9,
			carry_forward_allowed = $10, carry_forward_max_days = $11, carry_forward_expiry_days = $12,
			encashment_allowed = $13, encashment_max_days = $14, encashment_ratio = $15,
			min_notice_days = $16, max_consecutive_days = $17, requires_document = $18,
			document_threshold_days = $19, cancellation_notice_days = $20,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		leaveType.ID, leaveType.Code, leaveType.Name, leaveType.AnnualQuota,
		leaveType.IsPaid, leaveType.RequiresApproval, leaveType.IsActive, leaveType.HasQuota, leaveType.AllowZeroDayRequests,
		leaveType.CarryForward.Allowed, leaveType.CarryForward.MaxDays, leaveType.CarryForward.ExpiryDays,
		leaveType.Encashment.Allowed, leaveType.Encashment.MaxDays, leaveType.Encashment.Ratio,
		leaveType.MinNoticeDays, leaveType.MaxConsecutiveDays, leaveType.RequiresDocument,
		leaveType.DocumentThresholdDays, leaveType.CancellationNoticeDays,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == uniqueViolation {
			return leave.ErrLeaveTypeCodeExists
		}
		return fmt.Errorf("failed to update leave type %s: %w", leaveType.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}

	return nil
}
