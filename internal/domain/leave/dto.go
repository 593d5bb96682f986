package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type CreateLeaveTypeRequest struct {
	Code                   string             `json:"code" validate:"required,max=50"`
	Name                   string             `json:"name" validate:"required,max=255"`
	AnnualQuota            float64            `json:"annual_quota" validate:"gte=0"`
	IsPaid                 bool               `json:"is_paid"`
	RequiresApproval       *bool              `json:"requires_approval,omitempty"`
	HasQuota               *bool              `json:"has_quota,omitempty"`
	AllowZeroDayRequests   bool               `json:"allow_zero_day_requests"`
	CarryForward           CarryForwardPolicy `json:"carry_forward"`
	Encashment             EncashmentPolicy   `json:"encashment"`
	MinNoticeDays          int                `json:"min_notice_days" validate:"gte=0"`
	MaxConsecutiveDays     int                `json:"max_consecutive_days" validate:"gte=0"`
	RequiresDocument       bool               `json:"requires_document"`
	DocumentThresholdDays  int                `json:"document_threshold_days" validate:"gte=0"`
	CancellationNoticeDays int                `json:"cancellation_notice_days" validate:"gte=0"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	return validatePolicies(r.CarryForward, r.Encashment)
}

func validatePolicies(cf CarryForwardPolicy, enc EncashmentPolicy) error {
	var errs validator.ValidationErrors
	if cf.MaxDays < 0 || cf.ExpiryDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "carry_forward",
			Message: "carry_forward limits must not be negative",
		})
	}
	if enc.MaxDays < 0 || enc.Ratio < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "encashment",
			Message: "encashment limits must not be negative",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                     string              `json:"-"`
	Code                   *string             `json:"code,omitempty" validate:"omitempty,max=50"`
	Name                   *string             `json:"name,omitempty" validate:"omitempty,max=255"`
	AnnualQuota            *float64            `json:"annual_quota,omitempty" validate:"omitempty,gte=0"`
	IsActive               *bool               `json:"is_active,omitempty"`
	RequiresApproval       *bool               `json:"requires_approval,omitempty"`
	HasQuota               *bool               `json:"has_quota,omitempty"`
	CarryForward           *CarryForwardPolicy `json:"carry_forward,omitempty"`
	Encashment             *EncashmentPolicy   `json:"encashment,omitempty"`
	MinNoticeDays          *int                `json:"min_notice_days,omitempty" validate:"omitempty,gte=0"`
	MaxConsecutiveDays     *int                `json:"max_consecutive_days,omitempty" validate:"omitempty,gte=0"`
	RequiresDocument       *bool               `json:"requires_document,omitempty"`
	CancellationNoticeDays *int                `json:"cancellation_notice_days,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Code != nil && validator.IsEmpty(*r.Code) {
		return validator.ValidationErrors{{Field: "code", Message: "code must not be empty"}}
	}
	cf, enc := CarryForwardPolicy{}, EncashmentPolicy{}
	if r.CarryForward != nil {
		cf = *r.CarryForward
	}
	if r.Encashment != nil {
		enc = *r.Encashment
	}
	return validatePolicies(cf, enc)
}

// SubmitLeaveRequest creates a pending request. EmployeeID may be left empty
// when employees submit for themselves.
type SubmitLeaveRequest struct {
	EmployeeID    string               `json:"employee_id,omitempty"`
	LeaveTypeCode string               `json:"leave_type_code" validate:"required"`
	StartDate     string               `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string               `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsHalfDay     bool                 `json:"is_half_day"`
	HalfDayType   calendar.HalfDayType `json:"half_day_type,omitempty" validate:"omitempty,oneof=morning afternoon"`
	Duration      *float64             `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Reason        string               `json:"reason" validate:"max=1000"`
	Attachments   []string             `json:"attachments,omitempty" validate:"omitempty,dive,required"`
}

func (r *SubmitLeaveRequest) Validate() error {
	return validator.Struct(r)
}

func (r SubmitLeaveRequest) durationType() calendar.DurationType {
	if r.IsHalfDay {
		return calendar.DurationHalfDay
	}
	return calendar.DurationFullDay
}

// WorkingDaysRequest is the calculator call that prices this submission.
func (r SubmitLeaveRequest) WorkingDaysRequest(region string) calendar.WorkingDaysRequest {
	req := calendar.WorkingDaysRequest{
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		DurationType: r.durationType(),
		HalfDayType:  r.HalfDayType,
	}
	if region != "" {
		req.Region = &region
	}
	return req
}

type ApproveLeaveRequest struct {
	Comments *string `json:"comments,omitempty" validate:"omitempty,max=1000"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return ErrRejectionReasonRequired
	}
	return nil
}

type CancelLeaveRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type HoldLeaveRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type LeaveRequestFilter struct {
	CompanyID     string
	EmployeeID    *string
	Status        *Status
	LeaveTypeCode *string
}

type LeaveTypeResponse struct {
	ID                     string             `json:"id"`
	Code                   string             `json:"code"`
	Name                   string             `json:"name"`
	AnnualQuota            float64            `json:"annual_quota"`
	IsPaid                 bool               `json:"is_paid"`
	RequiresApproval       bool               `json:"requires_approval"`
	IsActive               bool               `json:"is_active"`
	HasQuota               bool               `json:"has_quota"`
	AllowZeroDayRequests   bool               `json:"allow_zero_day_requests"`
	CarryForward           CarryForwardPolicy `json:"carry_forward"`
	Encashment             EncashmentPolicy   `json:"encashment"`
	MinNoticeDays          int                `json:"min_notice_days"`
	MaxConsecutiveDays     int                `json:"max_consecutive_days"`
	RequiresDocument       bool               `json:"requires_document"`
	DocumentThresholdDays  int                `json:"document_threshold_days"`
	CancellationNoticeDays int                `json:"cancellation_notice_days"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                     t.ID,
		Code:                   t.Code,
		Name:                   t.Name,
		AnnualQuota:            t.AnnualQuota,
		IsPaid:                 t.IsPaid,
		RequiresApproval:       t.RequiresApproval,
		IsActive:               t.IsActive,
		HasQuota:               t.HasQuota,
		AllowZeroDayRequests:   t.AllowZeroDayRequests,
		CarryForward:           t.CarryForward,
		Encashment:             t.Encashment,
		MinNoticeDays:          t.MinNoticeDays,
		MaxConsecutiveDays:     t.MaxConsecutiveDays,
		RequiresDocument:       t.RequiresDocument,
		DocumentThresholdDays:  t.DocumentThreshold(),
		CancellationNoticeDays: t.CancellationNoticeDays,
	}
}

type LeaveRequestResponse struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employee_id"`
	LeaveTypeCode      string     `json:"leave_type_code"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	IsHalfDay          bool       `json:"is_half_day"`
	HalfDayType        string     `json:"half_day_type,omitempty"`
	Duration           float64    `json:"duration"`
	WorkingDays        float64    `json:"working_days"`
	TotalDays          int        `json:"total_days"`
	Status             Status     `json:"status"`
	BalanceAtRequest   float64    `json:"balance_at_request"`
	Reason             string     `json:"reason,omitempty"`
	Attachments        []string   `json:"attachments,omitempty"`
	RequestedBy        string     `json:"requested_by"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	ApprovalComments   *string    `json:"approval_comments,omitempty"`
	RejectedBy         *string    `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	HeldBy             *string    `json:"held_by,omitempty"`
	HeldAt             *time.Time `json:"held_at,omitempty"`
	HoldReason         *string    `json:"hold_reason,omitempty"`
	Version            int        `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		LeaveTypeCode:      r.LeaveTypeCode,
		StartDate:          r.StartDate.Format(calendar.DateLayout),
		EndDate:            r.EndDate.Format(calendar.DateLayout),
		IsHalfDay:          r.IsHalfDay,
		HalfDayType:        string(r.HalfDayType),
		Duration:           r.Duration,
		WorkingDays:        r.WorkingDays,
		TotalDays:          r.TotalDays,
		Status:             r.Status,
		BalanceAtRequest:   r.BalanceAtRequest,
		Reason:             r.Reason,
		Attachments:        r.Attachments,
		RequestedBy:        r.RequestedBy,
		ApprovedBy:         r.ApprovedBy,
		ApprovedAt:         r.ApprovedAt,
		ApprovalComments:   r.ApprovalComments,
		RejectedBy:         r.RejectedBy,
		RejectedAt:         r.RejectedAt,
		RejectionReason:    r.RejectionReason,
		CancelledBy:        r.CancelledBy,
		CancelledAt:        r.CancelledAt,
		CancellationReason: r.CancellationReason,
		HeldBy:             r.HeldBy,
		HeldAt:             r.HeldAt,
		HoldReason:         r.HoldReason,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
