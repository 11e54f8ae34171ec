package appointment

import (
	"context"
	"time"

	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/domain/schedule"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ListWindowInput struct {
	StudioID string

	View   string // day | week | month | year
	Anchor string // 2006-01-02, studio timezone; empty means today

	// Optional artist filter; empty means all artists.
	ArtistID string
}

type ListWindowOutput struct {
	Window       schedule.Window      `json:"window"`
	Appointments []models.Appointment `json:"appointments"`
}

// ======================================================
// USE CASE
// ======================================================

type ListWindow struct {
	repo domain.Repository
}

func NewListWindow(repo domain.Repository) *ListWindow {
	return &ListWindow{repo: repo}
}

// Execute resolves the calendar window for the requested view around the
// anchor date and returns every appointment starting inside it. The month
// view covers the full visible grid, leading and trailing foreign-month
// days included.
func (uc *ListWindow) Execute(
	ctx context.Context,
	in ListWindowInput,
) (*ListWindowOutput, error) {

	studio, err := uc.repo.GetStudioByID(ctx, in.StudioID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(studio.Timezone)

	view, err := schedule.ParseView(in.View)
	if err != nil {
		return nil, err
	}

	anchor := timezone.NowIn(studio.Timezone)
	if in.Anchor != "" {
		anchor, err = time.ParseInLocation("2006-01-02", in.Anchor, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
	}

	window := schedule.Compute(anchor, view)

	appointments, err := uc.repo.ListForWindow(ctx, in.StudioID, window.Start, window.End, in.ArtistID)
	if err != nil {
		return nil, err
	}

	return &ListWindowOutput{
		Window:       window,
		Appointments: appointments,
	}, nil
}
