package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

const DefaultDocumentThresholdDays = 3

type CarryForwardPolicy struct {
	Allowed    bool    `json:"allowed"`
	MaxDays    float64 `json:"max_days"`
	ExpiryDays int     `json:"expiry_days"`
}

type EncashmentPolicy struct {
	Allowed bool    `json:"allowed"`
	MaxDays float64 `json:"max_days"`
	Ratio   float64 `json:"ratio"`
}

// LeaveType entity. Code is unique per company and frozen once a request
// references it.
type LeaveType struct {
	ID          string
	CompanyID   string
	Code        string
	Name        string
	AnnualQuota float64

	// Policy Rules
	IsPaid               bool
	RequiresApproval     bool
	IsActive             bool
	HasQuota             bool
	AllowZeroDayRequests bool

	CarryForward CarryForwardPolicy
	Encashment   EncashmentPolicy

	// Request Rules, zero disables a rule
	MinNoticeDays          int
	MaxConsecutiveDays     int
	RequiresDocument       bool
	DocumentThresholdDays  int
	CancellationNoticeDays int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentThreshold is the working-day count from which an attachment is needed.
func (t LeaveType) DocumentThreshold() int {
	if t.DocumentThresholdDays <= 0 {
		return DefaultDocumentThresholdDays
	}
	return t.DocumentThresholdDays
}

// NeedsDocument reports whether a request of workingDays must carry an attachment.
func (t LeaveType) NeedsDocument(workingDays float64) bool {
	return t.RequiresDocument && workingDays >= float64(t.DocumentThreshold())
}

// LeaveRequest entity. It is mutated only through status transitions and is
// never hard-deleted.
type LeaveRequest struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	LeaveTypeCode string

	StartDate   time.Time
	EndDate     time.Time
	IsHalfDay   bool
	HalfDayType calendar.HalfDayType

	Duration    float64
	WorkingDays float64
	TotalDays   int

	Status           Status
	BalanceAtRequest float64
	Reason           string
	Attachments      []string
	RequestedBy      string

	ApprovedBy       *string
	ApprovedAt       *time.Time
	ApprovalComments *string

	RejectedBy      *string
	RejectedAt      *time.Time
	RejectionReason *string

	CancelledBy        *string
	CancelledAt        *time.Time
	CancellationReason *string

	HeldBy     *string
	HeldAt     *time.Time
	HoldReason *string

	Version   int
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps applies the closed-interval test existing.start <= end and
// existing.end >= start on calendar dates.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return calendar.DaysBetween(r.StartDate, end) >= 0 && calendar.DaysBetween(start, r.EndDate) >= 0
}

// Balance is the ledger view for one employee and leave type in one
// accounting year. Balance is Quota+CarriedForward-Used; Available also
// subtracts Pending.
type Balance struct {
	EmployeeID     string  `json:"employee_id"`
	LeaveTypeCode  string  `json:"leave_type_code"`
	Year           int     `json:"year"`
	HasQuota       bool    `json:"has_quota"`
	Quota          float64 `json:"quota"`
	CarriedForward float64 `json:"carried_forward"`
	Used           float64 `json:"used"`
	Pending        float64 `json:"pending"`
	Balance        float64 `json:"balance"`
	Available      float64 `json:"available"`
	EncashableDays float64 `json:"encashable_days"`
}
