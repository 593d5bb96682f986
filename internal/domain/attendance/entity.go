package attendance

import (
	"time"
)

type Status string

const (
	StatusWorking        Status = "working"
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusEarlyDeparture Status = "early_departure"
	StatusHalfDay        Status = "half_day"
)

type Punch struct {
	Time   time.Time `bson:"time" json:"time"`
	Source string    `bson:"source,omitempty" json:"source,omitempty"`
	Note   *string   `bson:"note,omitempty" json:"note,omitempty"`
}

type Break struct {
	Start  time.Time  `bson:"start" json:"start"`
	End    *time.Time `bson:"end,omitempty" json:"end,omitempty"`
	Reason string     `bson:"reason,omitempty" json:"reason,omitempty"`
}

func (b Break) Minutes() int {
	if b.End == nil {
		return 0
	}
	return int(b.End.Sub(b.Start) / time.Minute)
}

// Record is one employee's attendance for one tenant-local date. The derived
// fields are only ever written together by Apply.
type Record struct {
	ID         string `bson:"_id" json:"id"`
	CompanyID  string `bson:"company_id" json:"company_id"`
	EmployeeID string `bson:"employee_id" json:"employee_id"`
	Date       string `bson:"date" json:"date"`

	ShiftCode         string `bson:"shift_code" json:"shift_code"`
	ScheduledStart    string `bson:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd      string `bson:"scheduled_end" json:"scheduled_end"`
	UsedFallbackShift bool   `bson:"used_fallback_shift" json:"used_fallback_shift"`

	ClockIn              *Punch  `bson:"clock_in,omitempty" json:"clock_in,omitempty"`
	ClockOut             *Punch  `bson:"clock_out,omitempty" json:"clock_out,omitempty"`
	Breaks               []Break `bson:"breaks" json:"breaks"`
	BreakDurationMinutes int     `bson:"break_duration_minutes" json:"break_duration_minutes"`

	HoursWorked           float64 `bson:"hours_worked" json:"hours_worked"`
	RegularHours          float64 `bson:"regular_hours" json:"regular_hours"`
	OvertimeHours         float64 `bson:"overtime_hours" json:"overtime_hours"`
	IsLate                bool    `bson:"is_late" json:"is_late"`
	LateMinutes           int     `bson:"late_minutes" json:"late_minutes"`
	IsEarlyDeparture      bool    `bson:"is_early_departure" json:"is_early_departure"`
	EarlyDepartureMinutes int     `bson:"early_departure_minutes" json:"early_departure_minutes"`
	Status                Status  `bson:"status" json:"status"`

	Version   int       `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Computation is the full set of derived attendance facts.
type Computation struct {
	HoursWorked           float64 `json:"hours_worked"`
	RegularHours          float64 `json:"regular_hours"`
	OvertimeHours         float64 `json:"overtime_hours"`
	IsLate                bool    `json:"is_late"`
	LateMinutes           int     `json:"late_minutes"`
	IsEarlyDeparture      bool    `json:"is_early_departure"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	Status                Status  `json:"status"`
}

func (r *Record) Apply(c Computation) {
	r.HoursWorked = c.HoursWorked
	r.RegularHours = c.RegularHours
	r.OvertimeHours = c.OvertimeHours
	r.IsLate = c.IsLate
	r.LateMinutes = c.LateMinutes
	r.IsEarlyDeparture = c.IsEarlyDeparture
	r.EarlyDepartureMinutes = c.EarlyDepartureMinutes
	r.Status = c.Status
}

// ClearDerived resets derived fields for a record that lost its clock-out.
func (r *Record) ClearDerived() {
	r.Apply(Computation{Status: StatusWorking})
}

func (r *Record) OpenBreak() *Break {
	for i := range r.Breaks {
		if r.Breaks[i].End == nil {
			return &r.Breaks[i]
		}
	}
	return nil
}

// SumBreaks recomputes BreakDurationMinutes from closed breaks.
func (r *Record) SumBreaks() {
	total := 0
	for _, b := range r.Breaks {
		total += b.Minutes()
	}
	r.BreakDurationMinutes = total
}

func (r Record) IsComplete() bool {
	return r.ClockIn != nil && r.ClockOut != nil
}
