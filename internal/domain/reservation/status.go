package reservation

import "strings"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
}

// IsActive reports whether a reservation in this status occupies its slot.
func (s Status) IsActive() bool {
	return s != StatusCancelled
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Statuses() {
		if s == known {
			return s, nil
		}
	}
	return "", NewValidationError("status", "must be one of pending, confirmed, completed, cancelled")
}

// InitialStatus validates the configured status for new bookings.
func InitialStatus(raw string) (Status, error) {
	s, err := ParseStatus(raw)
	if err != nil {
		return "", err
	}
	if s != StatusPending && s != StatusConfirmed {
		return "", NewValidationError("status", "new reservations start as pending or confirmed")
	}
	return s, nil
}

// ===============================
// Transitions
// ===============================

// RequiresSlotCheck reports whether moving from -> to makes the reservation
// occupy its slot again, so the slot must be re-validated.
func RequiresSlotCheck(from, to Status) bool {
	return !from.IsActive() && to.IsActive()
}
