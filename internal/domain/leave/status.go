package leave

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusOnHold    Status = "on_hold"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionHold    Action = "hold"
	ActionResume  Action = "resume"
)

var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionCancel:  StatusCancelled,
		ActionHold:    StatusOnHold,
	},
	StatusOnHold: {
		ActionResume: StatusPending,
		ActionCancel: StatusCancelled,
	},
	StatusApproved: {
		ActionCancel: StatusCancelled,
	},
}

// Next returns the state reached by applying action, or false when the
// transition is not allowed.
func (s Status) Next(action Action) (Status, bool) {
	next, ok := transitions[s][action]
	return next, ok
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CountsAsPending is true for requests still waiting on a decision.
func (s Status) CountsAsPending() bool {
	return s == StatusPending || s == StatusOnHold
}

// Blocks reports whether a request in this status reserves its dates.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusApproved || s == StatusOnHold
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// ActiveStatuses lists the statuses that reserve dates, for store queries.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusOnHold}
}
