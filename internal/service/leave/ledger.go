package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// Ledger derives balances from request history on every read. There is no
// stored counter to drift from the requests themselves.
type Ledger struct {
	requests leave.LeaveRequestRepository
}

func NewLedger(requests leave.LeaveRequestRepository) *Ledger {
	return &Ledger{requests: requests}
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// GetBalance reads the employee's requests for the accounting year and the
// year before it (for carry-forward) and derives the balance as of today,
// including the days the encashment policy would pay out.
func (l *Ledger) GetBalance(ctx context.Context, employeeID string, leaveType leave.LeaveType, year int, today time.Time) (leave.Balance, error) {
	requests, err := l.requests.ListForLedger(ctx, employeeID, leaveType.Code, yearStart(year-1), yearStart(year+1))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to list leave requests for ledger: %w", err)
	}
	b := DeriveBalance(employeeID, leaveType, year, today, requests)
	b.EncashableDays = EncashableDays(b, leaveType.Encashment)
	return b, nil
}

// DeriveBalance is the ledger rule set:
//
//	used      = approved durations starting in year
//	pending   = pending or on-hold durations starting in year, on or after today
//	balance   = quota + carried forward - used
//	available = balance - pending
func DeriveBalance(employeeID string, leaveType leave.LeaveType, year int, today time.Time, requests []leave.LeaveRequest) leave.Balance {
	used, pending, prevUsed := decimal.Zero, decimal.Zero, decimal.Zero

	for _, r := range requests {
		if r.IsDeleted {
			continue
		}
		d := decimal.NewFromFloat(r.Duration)
		switch r.StartDate.Year() {
		case year:
			switch {
			case r.Status == leave.StatusApproved:
				used = used.Add(d)
			case r.Status.CountsAsPending() && calendar.DaysBetween(today, r.StartDate) >= 0:
				pending = pending.Add(d)
			}
		case year - 1:
			if r.Status == leave.StatusApproved {
				prevUsed = prevUsed.Add(d)
			}
		}
	}

	b := leave.Balance{
		EmployeeID:    employeeID,
		LeaveTypeCode: leaveType.Code,
		Year:          year,
		HasQuota:      leaveType.HasQuota,
		Used:          used.InexactFloat64(),
		Pending:       pending.InexactFloat64(),
	}
	if !leaveType.HasQuota {
		return b
	}

	quota := decimal.NewFromFloat(leaveType.AnnualQuota)
	carried := carryForward(leaveType, year, today, prevUsed)
	balance := quota.Add(carried).Sub(used)

	b.Quota = quota.InexactFloat64()
	b.CarriedForward = carried.InexactFloat64()
	b.Balance = balance.InexactFloat64()
	b.Available = balance.Sub(pending).InexactFloat64()
	return b
}

// carryForward is the prior year's unused quota, capped at MaxDays, until it
// expires ExpiryDays after 1 January. A zero MaxDays or ExpiryDays means no cap.
func carryForward(leaveType leave.LeaveType, year int, today time.Time, prevUsed decimal.Decimal) decimal.Decimal {
	policy := leaveType.CarryForward
	if !policy.Allowed {
		return decimal.Zero
	}
	if policy.ExpiryDays > 0 {
		expiry := yearStart(year).AddDate(0, 0, policy.ExpiryDays)
		if calendar.DaysBetween(expiry, today) >= 0 {
			return decimal.Zero
		}
	}

	unused := decimal.NewFromFloat(leaveType.AnnualQuota).Sub(prevUsed)
	if unused.IsNegative() {
		return decimal.Zero
	}
	if policy.MaxDays > 0 {
		unused = decimal.Min(unused, decimal.NewFromFloat(policy.MaxDays))
	}
	return unused
}

// ProjectBalance applies one status change of a request of duration to an
// already computed balance. It is the rule set a cached balance would follow
// and must agree with DeriveBalance for requests that start on or after
// today. A from of "" means the request is new.
func ProjectBalance(b leave.Balance, from, to leave.Status, duration float64) leave.Balance {
	d := decimal.NewFromFloat(duration)
	used := decimal.NewFromFloat(b.Used)
	pending := decimal.NewFromFloat(b.Pending)

	switch {
	case from == leave.StatusApproved:
		used = used.Sub(d)
	case from.CountsAsPending():
		pending = pending.Sub(d)
	}
	switch {
	case to == leave.StatusApproved:
		used = used.Add(d)
	case to.CountsAsPending():
		pending = pending.Add(d)
	}

	b.Used = used.InexactFloat64()
	b.Pending = pending.InexactFloat64()
	if b.HasQuota {
		balance := decimal.NewFromFloat(b.Quota).Add(decimal.NewFromFloat(b.CarriedForward)).Sub(used)
		b.Balance = balance.InexactFloat64()
		b.Available = balance.Sub(pending).InexactFloat64()
	}
	return b
}

// EncashableDays is the part of the balance that may be paid out:
// min(balance, maxDays) x ratio, rounded to two decimals.
func EncashableDays(b leave.Balance, policy leave.EncashmentPolicy) float64 {
	if !policy.Allowed || !b.HasQuota || b.Balance <= 0 {
		return 0
	}
	days := decimal.NewFromFloat(b.Balance)
	if policy.MaxDays > 0 {
		days = decimal.Min(days, decimal.NewFromFloat(policy.MaxDays))
	}
	return days.Mul(decimal.NewFromFloat(policy.Ratio)).Round(2).InexactFloat64()
}
