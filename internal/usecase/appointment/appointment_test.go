package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	studio  models.Studio
	clients map[string]models.Client
	store   map[string]*models.Appointment

	lastWindowStart time.Time
	lastWindowEnd   time.Time
	lastArtistID    string
}

func newFakeRepo(tz string) *fakeRepo {
	return &fakeRepo{
		studio:  models.Studio{ID: "studio-1", Name: "Ink Link", Timezone: tz},
		clients: map[string]models.Client{},
		store:   map[string]*models.Appointment{},
	}
}

func (f *fakeRepo) GetStudioByID(ctx context.Context, id string) (*models.Studio, error) {
	if id != f.studio.ID {
		return nil, httperr.ErrBusiness("studio_not_found")
	}
	s := f.studio
	return &s, nil
}

func (f *fakeRepo) GetClient(ctx context.Context, studioID, clientID string) (*models.Client, error) {
	cl, ok := f.clients[clientID]
	if !ok || cl.StudioID != studioID {
		return nil, httperr.ErrBusiness("client_not_found")
	}
	return &cl, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	cp := *ap
	f.store[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAppointment(ctx context.Context, studioID, appointmentID string) (*models.Appointment, error) {
	ap, ok := f.store[appointmentID]
	if !ok || ap.StudioID != studioID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	cp := *ap
	f.store[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAppointment(ctx context.Context, studioID, appointmentID string) error {
	delete(f.store, appointmentID)
	return nil
}

func (f *fakeRepo) ListForWindow(ctx context.Context, studioID string, start, end time.Time, artistID string) ([]models.Appointment, error) {
	f.lastWindowStart = start
	f.lastWindowEnd = end
	f.lastArtistID = artistID

	var out []models.Appointment
	for _, ap := range f.store {
		if ap.StudioID != studioID {
			continue
		}
		if artistID != "" && ap.ArtistID != artistID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

// ======================================================
// CREATE
// ======================================================

func validCreateInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		StudioID:    "studio-1",
		ActorUserID: "owner-1",
		ArtistID:    "artist-1",
		ServiceName: "Blackwork sleeve",
		Date:        "2025-03-10",
		StartTime:   "14:00",
		EndTime:     "17:30",
		Price:       decimal.NewFromInt(450),
		Deposit:     decimal.NewFromInt(100),
	}
}

func TestCreateAppointment(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	uc := NewCreateAppointment(repo, nil, nil)

	ap, err := uc.Execute(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if ap.Status != "PENDING" {
		t.Errorf("status = %s, want PENDING", ap.Status)
	}
	if ap.ID == "" {
		t.Error("id must be assigned")
	}

	loc, _ := time.LoadLocation("Europe/Rome")
	wantStart := time.Date(2025, time.March, 10, 14, 0, 0, 0, loc)
	if !ap.StartTime.Equal(wantStart) {
		t.Errorf("start = %s, want %s", ap.StartTime, wantStart)
	}
	if got := ap.EndTime.Sub(ap.StartTime); got != 3*time.Hour+30*time.Minute {
		t.Errorf("duration = %s", got)
	}
	if _, ok := repo.store[ap.ID]; !ok {
		t.Error("appointment not persisted")
	}
}

func TestCreateAppointmentRejectsEmptyWindow(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	uc := NewCreateAppointment(repo, nil, nil)

	in := validCreateInput()
	in.EndTime = "14:00"

	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "invalid_time_window") {
		t.Errorf("err = %v, want invalid_time_window", err)
	}

	in.EndTime = "13:00"
	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "invalid_time_window") {
		t.Errorf("err = %v, want invalid_time_window", err)
	}
}

func TestCreateAppointmentRejectsBadClock(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	uc := NewCreateAppointment(repo, nil, nil)

	in := validCreateInput()
	in.StartTime = "25:99"

	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Errorf("err = %v, want invalid_date_or_time", err)
	}
}

func TestCreateAppointmentRejectsForeignClient(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	repo.clients["client-other"] = models.Client{ID: "client-other", StudioID: "studio-2"}
	uc := NewCreateAppointment(repo, nil, nil)

	in := validCreateInput()
	id := "client-other"
	in.ClientID = &id

	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "client_not_found") {
		t.Errorf("err = %v, want client_not_found", err)
	}
}

// ======================================================
// STATUS
// ======================================================

func TestCompletedStatusIsTerminal(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	createUC := NewCreateAppointment(repo, nil, nil)
	statusUC := NewSetAppointmentStatus(repo, nil)

	ap, err := createUC.Execute(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := statusUC.Execute(context.Background(), "studio-1", "owner-1", ap.ID, "completed"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if repo.store[ap.ID].Status != "COMPLETED" {
		t.Fatalf("status = %s", repo.store[ap.ID].Status)
	}

	_, err = statusUC.Execute(context.Background(), "studio-1", "owner-1", ap.ID, "PENDING")
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("err = %v, want invalid_state", err)
	}

	if _, err := statusUC.Execute(context.Background(), "studio-1", "owner-1", ap.ID, "banana"); !httperr.IsBusiness(err, "invalid_status") {
		t.Errorf("err = %v, want invalid_status", err)
	}
}

// ======================================================
// LIST WINDOW
// ======================================================

func TestListWindowMonthGrid(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	listUC := NewListWindow(repo)

	out, err := listUC.Execute(context.Background(), ListWindowInput{
		StudioID: "studio-1",
		View:     "month",
		Anchor:   "2024-06-15",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	loc, _ := time.LoadLocation("Europe/Rome")
	// June 2024 renders May 27 through June 30 on a Monday-first grid.
	wantStart := time.Date(2024, time.May, 27, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2024, time.July, 1, 0, 0, 0, 0, loc)

	if !out.Window.Start.Equal(wantStart) || !out.Window.End.Equal(wantEnd) {
		t.Errorf("window = [%s, %s), want [%s, %s)", out.Window.Start, out.Window.End, wantStart, wantEnd)
	}
	if !repo.lastWindowStart.Equal(wantStart) || !repo.lastWindowEnd.Equal(wantEnd) {
		t.Error("repository queried with a different window than returned")
	}
}

func TestListWindowRejectsUnknownView(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	listUC := NewListWindow(repo)

	_, err := listUC.Execute(context.Background(), ListWindowInput{
		StudioID: "studio-1",
		View:     "fortnight",
	})
	if !httperr.IsBusiness(err, "invalid_view") {
		t.Errorf("err = %v, want invalid_view", err)
	}
}

func TestListWindowFiltersByArtist(t *testing.T) {
	repo := newFakeRepo("Europe/Rome")
	createUC := NewCreateAppointment(repo, nil, nil)

	first := validCreateInput()
	if _, err := createUC.Execute(context.Background(), first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := validCreateInput()
	second.ArtistID = "artist-2"
	second.StartTime = "10:00"
	second.EndTime = "12:00"
	if _, err := createUC.Execute(context.Background(), second); err != nil {
		t.Fatalf("create: %v", err)
	}

	listUC := NewListWindow(repo)
	out, err := listUC.Execute(context.Background(), ListWindowInput{
		StudioID: "studio-1",
		View:     "day",
		Anchor:   "2025-03-10",
		ArtistID: "artist-2",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(out.Appointments) != 1 || out.Appointments[0].ArtistID != "artist-2" {
		t.Errorf("appointments = %+v", out.Appointments)
	}
}

// keep the fake honest
var _ domain.Repository = (*fakeRepo)(nil)
