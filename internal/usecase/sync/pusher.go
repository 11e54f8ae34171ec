package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	"github.com/InkLinkStudio/studio-crm/internal/logging"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// ======================================================
// PUSHER (local -> external calendar)
// ======================================================

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Pusher struct {
	repo     Repository
	provider Provider
}

func NewPusher(repo Repository, provider Provider) *Pusher {
	return &Pusher{repo: repo, provider: provider}
}

// Push mirrors a local appointment change to the mapped external calendar.
// A missing integration, calendar mapping or external event id degrades to
// a logged no-op: local saves must never fail because of the mirror.
func (p *Pusher) Push(ctx context.Context, action Action, ap *models.Appointment, actorUserID string) error {
	log := logging.Get().WithFields(logrus.Fields{
		"action":         string(action),
		"appointment_id": ap.ID,
	})

	integration, err := p.repo.GetIntegration(ctx, actorUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Info("no google integration for user, skipping push")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load integration: %w", err)
	}

	refreshed, err := p.provider.Refresh(ctx, integration)
	if err != nil {
		return err
	}
	if refreshed {
		if err := p.repo.SaveIntegration(ctx, integration); err != nil {
			return err
		}
	}

	calendarID := buildMapping(integration)[ap.ArtistID]
	if calendarID == "" {
		log.WithField("artist_id", ap.ArtistID).Info("no calendar mapped for artist, skipping push")
		return nil
	}

	switch action {
	case ActionCreate:
		eventID, err := p.provider.CreateEvent(ctx, integration, calendarID, p.eventBody(ctx, ap))
		if err != nil {
			return err
		}
		return p.repo.SetExternalEventID(ctx, ap.StudioID, ap.ID, eventID)

	case ActionUpdate:
		if ap.ExternalEventID == nil || *ap.ExternalEventID == "" {
			log.Info("update push without external_event_id, skipping")
			return nil
		}
		return p.provider.UpdateEvent(ctx, integration, calendarID, *ap.ExternalEventID, p.eventBody(ctx, ap))

	case ActionDelete:
		if ap.ExternalEventID == nil || *ap.ExternalEventID == "" {
			log.Info("delete push without external_event_id, skipping")
			return nil
		}
		return p.provider.DeleteEvent(ctx, integration, calendarID, *ap.ExternalEventID)
	}

	return nil
}

// eventBody builds the outbound event the way studio staff read it in
// Google Calendar: client contact, service and the money recap.
func (p *Pusher) eventBody(ctx context.Context, ap *models.Appointment) gcal.Event {
	clientName := "Cliente Occasionale"
	clientPhone := ""
	if ap.ClientID != nil {
		if client, err := p.repo.GetClient(ctx, ap.StudioID, *ap.ClientID); err == nil {
			clientName = client.FullName
			clientPhone = client.Phone
		}
	}

	artistName := "Artista"
	if artist, err := p.repo.GetUser(ctx, ap.ArtistID); err == nil {
		artistName = artist.FullName
	}

	service := ap.ServiceName
	if service == "" {
		service = "Generico"
	}

	notes := ap.Notes
	if notes == "" {
		notes = "Nessuna nota"
	}

	balance := ap.Price.Sub(ap.Deposit)
	description := fmt.Sprintf(
		"CLIENTE: %s\nTELEFONO: %s\n\nSERVIZIO: %s\n\nECONOMICA:\nPrezzo: €%s\nAcconto: €%s\nSaldo: €%s\n\nNOTE:\n%s",
		clientName, clientPhone, service,
		ap.Price.StringFixed(2), ap.Deposit.StringFixed(2), balance.StringFixed(2),
		notes,
	)

	return gcal.Event{
		Summary:     fmt.Sprintf("[%s] %s - %s", artistName, clientName, service),
		Description: description,
		Start:       ap.StartTime,
		End:         ap.EndTime,
	}
}
