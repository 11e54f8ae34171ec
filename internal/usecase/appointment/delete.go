package appointment

import (
	"context"

	"github.com/InkLinkStudio/studio-crm/internal/audit"
	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/usecase/sync"
)

type DeleteAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	mirror Mirror
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	mirror Mirror,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:   repo,
		audit:  audit,
		mirror: mirror,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	studioID string,
	actorUserID string,
	appointmentID string,
) error {

	// loaded before the delete so the mirror still knows the external id
	ap, err := uc.repo.GetAppointment(ctx, studioID, appointmentID)
	if err != nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	if err := uc.repo.DeleteAppointment(ctx, studioID, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: studioID,
		UserID:   &actorUserID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	pushAsync(uc.mirror, sync.ActionDelete, *ap, actorUserID)

	return nil
}
