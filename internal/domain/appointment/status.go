package appointment

import (
	"strings"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
	StatusCancelled Status = "CANCELLED"
	StatusAbsent    Status = "ABSENT"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusNoShow:
		return StatusNoShow, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusAbsent:
		return StatusAbsent, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// Open reports whether the appointment still occupies its time slot.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusConfirmed
}

func InitialStatus() Status {
	return StatusPending
}

// ImportedStatus is the status given to appointments created by the
// external calendar reconciler.
func ImportedStatus() Status {
	return StatusConfirmed
}
