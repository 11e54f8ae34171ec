// Package sync reconciles the appointment store with externally-connected
// Google calendars: a pull sweep that upserts remote events by external id,
// and a push that mirrors local changes outward.
package sync

import (
	"context"
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// Provider is the external calendar API surface the use cases consume.
// *gcal.Client implements it; tests use a fake.
type Provider interface {
	Refresh(ctx context.Context, integration *models.UserIntegration) (refreshed bool, err error)

	ListCalendars(
		ctx context.Context,
		integration *models.UserIntegration,
	) ([]gcal.CalendarInfo, error)

	ListEvents(
		ctx context.Context,
		integration *models.UserIntegration,
		calendarID string,
		from, to time.Time,
	) ([]gcal.Event, error)

	CreateEvent(
		ctx context.Context,
		integration *models.UserIntegration,
		calendarID string,
		ev gcal.Event,
	) (string, error)

	UpdateEvent(
		ctx context.Context,
		integration *models.UserIntegration,
		calendarID string,
		eventID string,
		ev gcal.Event,
	) error

	DeleteEvent(
		ctx context.Context,
		integration *models.UserIntegration,
		calendarID string,
		eventID string,
	) error
}

// Repository is the storage surface of the reconciler.
type Repository interface {
	ListGoogleIntegrations(ctx context.Context) ([]models.UserIntegration, error)
	GetIntegration(ctx context.Context, userID string) (*models.UserIntegration, error)
	SaveIntegration(ctx context.Context, integration *models.UserIntegration) error

	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetClient(ctx context.Context, studioID, clientID string) (*models.Client, error)
	FindOrCreatePlaceholderClient(ctx context.Context, studioID string) (*models.Client, error)

	UpsertExternal(ctx context.Context, ap *models.Appointment) (created bool, err error)
	SetExternalEventID(ctx context.Context, studioID, appointmentID, externalEventID string) error
}

// buildMapping returns the artist -> calendar mapping of an integration.
// When none is configured the connecting user's own primary calendar is the
// implicit single mapping; building it here keeps that fallback out of the
// sync loops.
func buildMapping(integration *models.UserIntegration) models.CalendarMapping {
	if len(integration.CalendarMapping) > 0 {
		return integration.CalendarMapping
	}
	return models.CalendarMapping{integration.UserID: "primary"}
}
