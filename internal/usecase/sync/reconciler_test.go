package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// --------------------------------------------------
// Fakes
// --------------------------------------------------

type fakeProvider struct {
	events       map[string][]gcal.Event // calendarID -> events
	listErr      map[string]error
	refreshCalls int

	created map[string]gcal.Event
	updated map[string]gcal.Event
	deleted []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		events:  map[string][]gcal.Event{},
		listErr: map[string]error{},
		created: map[string]gcal.Event{},
		updated: map[string]gcal.Event{},
	}
}

func (f *fakeProvider) Refresh(_ context.Context, integration *models.UserIntegration) (bool, error) {
	if integration.TokenExpired(time.Now(), gcal.RefreshBuffer) {
		f.refreshCalls++
		integration.AccessToken = "fresh"
		integration.ExpiresAt = time.Now().Add(time.Hour)
		return true, nil
	}
	return false, nil
}

func (f *fakeProvider) ListCalendars(context.Context, *models.UserIntegration) ([]gcal.CalendarInfo, error) {
	return nil, nil
}

func (f *fakeProvider) ListEvents(_ context.Context, _ *models.UserIntegration, calendarID string, _, _ time.Time) ([]gcal.Event, error) {
	if err := f.listErr[calendarID]; err != nil {
		return nil, err
	}
	return f.events[calendarID], nil
}

func (f *fakeProvider) CreateEvent(_ context.Context, _ *models.UserIntegration, _ string, ev gcal.Event) (string, error) {
	id := "ext-" + uuid.NewString()
	f.created[id] = ev
	return id, nil
}

func (f *fakeProvider) UpdateEvent(_ context.Context, _ *models.UserIntegration, _ string, eventID string, ev gcal.Event) error {
	f.updated[eventID] = ev
	return nil
}

func (f *fakeProvider) DeleteEvent(_ context.Context, _ *models.UserIntegration, _ string, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeStore struct {
	integrations map[string]*models.UserIntegration
	users        map[string]*models.User
	clients      map[string]*models.Client

	appointments map[string]*models.Appointment // keyed studioID+externalID
	writes       int
	upsertErrFor string // externalID that fails

	integrationErr error // injected GetIntegration failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		integrations: map[string]*models.UserIntegration{},
		users:        map[string]*models.User{},
		clients:      map[string]*models.Client{},
		appointments: map[string]*models.Appointment{},
	}
}

func (s *fakeStore) ListGoogleIntegrations(context.Context) ([]models.UserIntegration, error) {
	var out []models.UserIntegration
	for _, i := range s.integrations {
		out = append(out, *i)
	}
	return out, nil
}

func (s *fakeStore) GetIntegration(_ context.Context, userID string) (*models.UserIntegration, error) {
	if s.integrationErr != nil {
		return nil, s.integrationErr
	}
	i, ok := s.integrations[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (s *fakeStore) SaveIntegration(_ context.Context, integration *models.UserIntegration) error {
	cp := *integration
	s.integrations[integration.UserID] = &cp
	return nil
}

func (s *fakeStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (s *fakeStore) GetClient(_ context.Context, studioID, clientID string) (*models.Client, error) {
	c, ok := s.clients[clientID]
	if !ok || c.StudioID != studioID {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (s *fakeStore) FindOrCreatePlaceholderClient(_ context.Context, studioID string) (*models.Client, error) {
	for _, c := range s.clients {
		if c.StudioID == studioID && c.IsPlaceholder {
			return c, nil
		}
	}
	c := &models.Client{
		ID:            uuid.NewString(),
		StudioID:      studioID,
		FullName:      models.PlaceholderClientName,
		IsPlaceholder: true,
	}
	s.clients[c.ID] = c
	return c, nil
}

func (s *fakeStore) UpsertExternal(_ context.Context, ap *models.Appointment) (bool, error) {
	if s.upsertErrFor != "" && *ap.ExternalEventID == s.upsertErrFor {
		return false, errors.New("forced upsert failure")
	}

	key := ap.StudioID + "/" + *ap.ExternalEventID
	existing, ok := s.appointments[key]
	if ok {
		changed := !existing.StartTime.Equal(ap.StartTime) ||
			!existing.EndTime.Equal(ap.EndTime) ||
			existing.ServiceName != ap.ServiceName ||
			existing.ArtistID != ap.ArtistID
		if changed {
			existing.StartTime = ap.StartTime
			existing.EndTime = ap.EndTime
			existing.ServiceName = ap.ServiceName
			existing.ArtistID = ap.ArtistID
			s.writes++
		}
		ap.ID = existing.ID
		return false, nil
	}

	ap.ID = uuid.NewString()
	cp := *ap
	s.appointments[key] = &cp
	s.writes++
	return true, nil
}

func (s *fakeStore) SetExternalEventID(_ context.Context, studioID, appointmentID, externalEventID string) error {
	for _, ap := range s.appointments {
		if ap.ID == appointmentID && ap.StudioID == studioID {
			ap.ExternalEventID = &externalEventID
			return nil
		}
	}
	s.appointments[studioID+"/"+externalEventID] = &models.Appointment{
		ID:              appointmentID,
		StudioID:        studioID,
		ExternalEventID: &externalEventID,
	}
	s.writes++
	return nil
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

func timedEvent(id string, start time.Time, summary string) gcal.Event {
	return gcal.Event{ID: id, Summary: summary, Start: start, End: start.Add(2 * time.Hour)}
}

func setupSweep(t *testing.T) (*fakeStore, *fakeProvider, *Reconciler) {
	t.Helper()

	store := newFakeStore()
	provider := newFakeProvider()

	store.users["owner-1"] = &models.User{ID: "owner-1", StudioID: "studio-1", FullName: "Nero", Role: "owner"}
	store.users["artist-1"] = &models.User{ID: "artist-1", StudioID: "studio-1", FullName: "Gio", Role: "artist"}
	store.integrations["owner-1"] = &models.UserIntegration{
		ID:        uuid.NewString(),
		UserID:    "owner-1",
		Provider:  models.ProviderGoogle,
		ExpiresAt: time.Now().Add(time.Hour),
		CalendarMapping: models.CalendarMapping{
			"artist-1": "cal-artist-1",
		},
	}

	return store, provider, NewReconciler(store, provider, nil, 30, 90)
}

// --------------------------------------------------
// Pull
// --------------------------------------------------

func TestSweepCreatesAppointmentsFromTimedEvents(t *testing.T) {
	store, provider, rec := setupSweep(t)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	provider.events["cal-artist-1"] = []gcal.Event{
		timedEvent("ev-1", start, "Sleeve session"),
		{ID: "ev-allday", Summary: "Ferie", AllDay: true},
	}

	res, err := rec.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("created = %d, want 1", res.Created)
	}

	ap := store.appointments["studio-1/ev-1"]
	if ap == nil {
		t.Fatal("appointment not stored under studio/external key")
	}
	if ap.ArtistID != "artist-1" || ap.ServiceName != "Sleeve session" {
		t.Errorf("unexpected appointment: %+v", ap)
	}
	if ap.Status != "CONFIRMED" {
		t.Errorf("imported status = %s, want CONFIRMED", ap.Status)
	}
	if ap.ClientID == nil || !store.clients[*ap.ClientID].IsPlaceholder {
		t.Error("imported appointment must be anchored to the placeholder client")
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	store, provider, rec := setupSweep(t)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	provider.events["cal-artist-1"] = []gcal.Event{
		timedEvent("ev-1", start, "Backpiece"),
		timedEvent("ev-2", start.Add(3*time.Hour), "Touch up"),
	}

	if _, err := rec.SweepAll(context.Background()); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	writesAfterFirst := store.writes

	res, err := rec.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}

	if res.Created != 0 {
		t.Errorf("second sweep created %d appointments, want 0", res.Created)
	}
	if store.writes != writesAfterFirst {
		t.Errorf("second sweep performed %d extra writes, want 0", store.writes-writesAfterFirst)
	}
}

func TestSweepSingleEventFailureDoesNotAbortBatch(t *testing.T) {
	store, provider, rec := setupSweep(t)

	start := time.Now().Add(24 * time.Hour)
	provider.events["cal-artist-1"] = []gcal.Event{
		timedEvent("ev-bad", start, "Broken"),
		timedEvent("ev-good", start.Add(4*time.Hour), "Fine"),
	}
	store.upsertErrFor = "ev-bad"

	res, err := rec.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if store.appointments["studio-1/ev-good"] == nil {
		t.Error("good event must still be processed after a failing one")
	}
	var total UserResult
	for _, u := range res.Users {
		total.Failed += u.Failed
		total.Created += u.Created
	}
	if total.Failed != 1 || total.Created != 1 {
		t.Errorf("failed=%d created=%d, want 1/1", total.Failed, total.Created)
	}
}

func TestSweepUserFailureIsIsolated(t *testing.T) {
	store, provider, rec := setupSweep(t)

	// Second tenant whose calendar fetch blows up.
	store.users["owner-2"] = &models.User{ID: "owner-2", StudioID: "studio-2", Role: "owner"}
	store.integrations["owner-2"] = &models.UserIntegration{
		ID:        uuid.NewString(),
		UserID:    "owner-2",
		Provider:  models.ProviderGoogle,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	provider.listErr["primary"] = errors.New("rate limited")

	provider.events["cal-artist-1"] = []gcal.Event{
		timedEvent("ev-1", time.Now().Add(24*time.Hour), "Session"),
	}

	res, err := rec.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("healthy tenant created = %d, want 1 despite the other tenant failing", res.Created)
	}
}

func TestSweepRefreshesExpiredToken(t *testing.T) {
	store, provider, rec := setupSweep(t)
	store.integrations["owner-1"].ExpiresAt = time.Now().Add(-time.Minute)

	if _, err := rec.SweepAll(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if provider.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", provider.refreshCalls)
	}
	if store.integrations["owner-1"].AccessToken != "fresh" {
		t.Error("refreshed token must be persisted")
	}
}

func TestDefaultMappingFallsBackToPrimary(t *testing.T) {
	store, provider, rec := setupSweep(t)
	store.integrations["owner-1"].CalendarMapping = nil

	provider.events["primary"] = []gcal.Event{
		timedEvent("ev-1", time.Now().Add(24*time.Hour), "Walk-in"),
	}

	res, err := rec.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("created = %d, want 1 via implicit primary mapping", res.Created)
	}
	ap := store.appointments["studio-1/ev-1"]
	if ap == nil || ap.ArtistID != "owner-1" {
		t.Errorf("implicit mapping must attribute the connecting user, got %+v", ap)
	}
}

// --------------------------------------------------
// Push
// --------------------------------------------------

func TestPushCreatePersistsExternalID(t *testing.T) {
	store, provider, _ := setupSweep(t)
	pusher := NewPusher(store, provider)

	clientID := uuid.NewString()
	store.clients[clientID] = &models.Client{ID: clientID, StudioID: "studio-1", FullName: "Marta", Phone: "333"}

	ap := &models.Appointment{
		ID:          uuid.NewString(),
		StudioID:    "studio-1",
		ArtistID:    "artist-1",
		ClientID:    &clientID,
		ServiceName: "Flash",
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(26 * time.Hour),
	}
	store.appointments["studio-1/manual"] = ap

	if err := pusher.Push(context.Background(), ActionCreate, ap, "owner-1"); err != nil {
		t.Fatalf("push create: %v", err)
	}

	if len(provider.created) != 1 {
		t.Fatalf("created events = %d, want 1", len(provider.created))
	}
	if ap.ExternalEventID == nil || *ap.ExternalEventID == "" {
		t.Error("external event id must be persisted back onto the appointment")
	}
	for _, ev := range provider.created {
		if ev.Summary != "[Gio] Marta - Flash" {
			t.Errorf("summary = %q", ev.Summary)
		}
	}
}

func TestPushWithoutMappingIsNoOp(t *testing.T) {
	store, provider, _ := setupSweep(t)
	pusher := NewPusher(store, provider)

	ap := &models.Appointment{
		ID:       uuid.NewString(),
		StudioID: "studio-1",
		ArtistID: "artist-unmapped",
	}

	if err := pusher.Push(context.Background(), ActionCreate, ap, "owner-1"); err != nil {
		t.Fatalf("push must degrade to a no-op, got %v", err)
	}
	if len(provider.created) != 0 {
		t.Error("no event may be created without a mapped calendar")
	}
}

func TestPushDeleteRequiresExternalID(t *testing.T) {
	store, provider, _ := setupSweep(t)
	pusher := NewPusher(store, provider)

	ap := &models.Appointment{ID: uuid.NewString(), StudioID: "studio-1", ArtistID: "artist-1"}

	if err := pusher.Push(context.Background(), ActionDelete, ap, "owner-1"); err != nil {
		t.Fatalf("delete without external id must be a no-op, got %v", err)
	}
	if len(provider.deleted) != 0 {
		t.Error("nothing may be deleted remotely without an external id")
	}

	ext := "ext-123"
	ap.ExternalEventID = &ext
	if err := pusher.Push(context.Background(), ActionDelete, ap, "owner-1"); err != nil {
		t.Fatalf("push delete: %v", err)
	}
	if len(provider.deleted) != 1 || provider.deleted[0] != "ext-123" {
		t.Errorf("deleted = %v", provider.deleted)
	}
}

func TestPushForUserWithoutIntegrationIsNoOp(t *testing.T) {
	store, provider, _ := setupSweep(t)
	pusher := NewPusher(store, provider)

	ap := &models.Appointment{ID: uuid.NewString(), StudioID: "studio-1", ArtistID: "artist-1"}

	if err := pusher.Push(context.Background(), ActionCreate, ap, "user-without-google"); err != nil {
		t.Fatalf("missing integration must be a no-op, got %v", err)
	}
	if len(provider.created) != 0 {
		t.Error("no event may be created without an integration")
	}
}

func TestPushSurfacesIntegrationLookupFailure(t *testing.T) {
	store, provider, _ := setupSweep(t)
	store.integrationErr = errors.New("connection refused")
	pusher := NewPusher(store, provider)

	ap := &models.Appointment{ID: uuid.NewString(), StudioID: "studio-1", ArtistID: "artist-1"}

	// Only a confirmed missing row may degrade to a no-op; a storage
	// outage has to bubble up so the caller can log the dropped mirror.
	if err := pusher.Push(context.Background(), ActionCreate, ap, "artist-1"); err == nil {
		t.Fatal("transient lookup failure must not be swallowed")
	}
}
