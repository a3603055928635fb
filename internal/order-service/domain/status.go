package domain

import "fmt"

// Status is the lifecycle state of an order. Transitions are not restricted;
// any status may follow any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCancelled  Status = "cancelled"
	StatusConfirmed  Status = "confirmed"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Statuses lists every valid status.
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusCancelled,
	StatusConfirmed,
	StatusCompleted,
	StatusFailed,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus converts s to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}
