package appointment

import (
	"context"

	"github.com/InkLinkStudio/studio-crm/internal/audit"
	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

type SetAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SetAppointmentStatus {
	return &SetAppointmentStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *SetAppointmentStatus) Execute(
	ctx context.Context,
	studioID string,
	actorUserID string,
	appointmentID string,
	status string,
) (*models.Appointment, error) {

	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, studioID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	previous := ap.Status
	if err := domain.SetStatus(ap, next); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: studioID,
		UserID:   &actorUserID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from": previous,
			"to":   ap.Status,
		},
	})

	return ap, nil
}
