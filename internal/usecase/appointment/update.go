package appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/InkLinkStudio/studio-crm/internal/audit"
	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/timezone"
	"github.com/InkLinkStudio/studio-crm/internal/usecase/sync"
)

// ======================================================
// INPUT
// ======================================================

// Pointer fields are patch semantics: nil means "leave unchanged".
type UpdateAppointmentInput struct {
	StudioID      string
	ActorUserID   string
	AppointmentID string

	ClientID *string
	ArtistID *string

	ServiceName *string

	Date      *string // 2006-01-02, studio timezone
	StartTime *string // 15:04
	EndTime   *string // 15:04

	Price   *decimal.Decimal
	Deposit *decimal.Decimal

	Notes  *string
	Images []string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	mirror Mirror
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	mirror Mirror,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:   repo,
		audit:  audit,
		mirror: mirror,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.StudioID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if in.Date != nil || in.StartTime != nil || in.EndTime != nil {
		studio, err := uc.repo.GetStudioByID(ctx, in.StudioID)
		if err != nil {
			return nil, err
		}
		loc := timezone.Location(studio.Timezone)

		date := ap.StartTime.In(loc).Format("2006-01-02")
		if in.Date != nil {
			date = *in.Date
		}
		startClock := ap.StartTime.In(loc).Format("15:04")
		if in.StartTime != nil {
			startClock = *in.StartTime
		}
		endClock := ap.EndTime.In(loc).Format("15:04")
		if in.EndTime != nil {
			endClock = *in.EndTime
		}

		start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startClock, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+endClock, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}

		if err := domain.ValidateWindow(start, end); err != nil {
			return nil, err
		}

		ap.StartTime = start
		ap.EndTime = end
	}

	if in.ClientID != nil {
		if _, err := uc.repo.GetClient(ctx, in.StudioID, *in.ClientID); err != nil {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		ap.ClientID = in.ClientID
	}
	if in.ArtistID != nil {
		ap.ArtistID = *in.ArtistID
	}
	if in.ServiceName != nil {
		ap.ServiceName = *in.ServiceName
	}
	if in.Price != nil {
		ap.Price = *in.Price
	}
	if in.Deposit != nil {
		ap.Deposit = *in.Deposit
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	if in.Images != nil {
		ap.Images = in.Images
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: in.StudioID,
		UserID:   &in.ActorUserID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	pushAsync(uc.mirror, sync.ActionUpdate, *ap, in.ActorUserID)

	return ap, nil
}
