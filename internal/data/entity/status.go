package entity

// Status is the approval state shared by users and update requests.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var statusTransitions = map[Status]map[Status]struct{}{
	StatusPending: {
		StatusApproved: {},
		StatusRejected: {},
	},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransition reports whether s may move to target. A same-state move is
// not a transition and returns false; callers decide whether it is a no-op.
func (s Status) CanTransition(target Status) bool {
	_, ok := statusTransitions[s][target]
	return ok
}

// Decision is an administrator's verdict on a pending record.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Target returns the status a decision moves a record to.
func (d Decision) Target() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}
