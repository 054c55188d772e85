package order

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions is the explicit legal state graph. Cancellation appears here
// like any other edge; which actor may take an edge is enforced by the
// Service (admins advance, owners and admins cancel).
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions exist from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether target is a legal next state from s.
// Skipping states, moving backward, and leaving a terminal state are all
// rejected here rather than by numeric comparison.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in s may still be cancelled.
func (s Status) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}
