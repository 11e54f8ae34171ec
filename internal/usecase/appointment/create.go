package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
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

type CreateAppointmentInput struct {
	StudioID    string
	ActorUserID string

	ClientID *string
	ArtistID string

	ServiceName string

	Date      string // 2006-01-02, studio timezone
	StartTime string // 15:04
	EndTime   string // 15:04

	Price   decimal.Decimal
	Deposit decimal.Decimal

	Notes  string
	Images []string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	mirror Mirror
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	mirror Mirror,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		audit:  audit,
		mirror: mirror,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	studio, err := uc.repo.GetStudioByID(ctx, in.StudioID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(studio.Timezone)

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.StartTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.EndTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if err := domain.ValidateWindow(start, end); err != nil {
		return nil, err
	}

	if in.ClientID != nil {
		if _, err := uc.repo.GetClient(ctx, in.StudioID, *in.ClientID); err != nil {
			return nil, httperr.ErrBusiness("client_not_found")
		}
	}

	ap := &models.Appointment{
		ID:          uuid.NewString(),
		StudioID:    in.StudioID,
		ClientID:    in.ClientID,
		ArtistID:    in.ArtistID,
		ServiceName: in.ServiceName,
		StartTime:   start,
		EndTime:     end,
		Status:      string(domain.InitialStatus()),
		Price:       in.Price,
		Deposit:     in.Deposit,
		Notes:       in.Notes,
		Images:      in.Images,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: in.StudioID,
		UserID:   &in.ActorUserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"artist_id": ap.ArtistID,
			"start":     ap.StartTime,
		},
	})

	pushAsync(uc.mirror, sync.ActionCreate, *ap, in.ActorUserID)

	return ap, nil
}
