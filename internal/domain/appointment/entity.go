package appointment

import (
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// ValidateWindow enforces the half-open, non-empty time window invariant.
func ValidateWindow(start, end time.Time) error {
	if !end.After(start) {
		return httperr.ErrBusiness("invalid_time_window")
	}
	return nil
}

func SetStatus(ap *models.Appointment, next Status) error {
	current, err := ParseStatus(ap.Status)
	if err != nil {
		return err
	}
	if current == StatusCompleted && next != StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	ap.Status = string(next)
	return nil
}
