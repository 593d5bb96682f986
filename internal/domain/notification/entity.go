package notification

import (
	"time"
)

// EventName identifies what happened; consumers subscribe by name.
type EventName string

const (
	EventLeaveSubmitted       EventName = "leave.submitted"
	EventLeaveApproved        EventName = "leave.approved"
	EventLeaveRejected        EventName = "leave.rejected"
	EventLeaveCancelled       EventName = "leave.cancelled"
	EventLeaveHeld            EventName = "leave.held"
	EventLeaveResumed         EventName = "leave.resumed"
	EventAttendanceClockedIn  EventName = "attendance.clocked_in"
	EventAttendanceClockedOut EventName = "attendance.clocked_out"
	EventAttendanceUpdated    EventName = "attendance.updated"
)

// Event is the stored form of a published notification.
type Event struct {
	ID        string         `bson:"_id" json:"id"`
	CompanyID string         `bson:"company_id" json:"company_id"`
	Name      EventName      `bson:"name" json:"name"`
	Payload   map[string]any `bson:"payload" json:"payload"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
