package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/sirupsen/logrus"

	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	"github.com/InkLinkStudio/studio-crm/internal/logging"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/synclock"
)

// ======================================================
// RECONCILER (pull)
// ======================================================

type Reconciler struct {
	repo     Repository
	provider Provider
	locker   *synclock.Locker

	pastDays   int
	futureDays int
}

func NewReconciler(
	repo Repository,
	provider Provider,
	locker *synclock.Locker,
	pastDays int,
	futureDays int,
) *Reconciler {
	if pastDays <= 0 {
		pastDays = 30
	}
	if futureDays <= 0 {
		futureDays = 90
	}
	return &Reconciler{
		repo:       repo,
		provider:   provider,
		locker:     locker,
		pastDays:   pastDays,
		futureDays: futureDays,
	}
}

type UserResult struct {
	UserID  string `json:"user_id"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Err     error  `json:"-"`
}

type SweepResult struct {
	Users   []UserResult `json:"users"`
	Created int          `json:"created"`
	Updated int          `json:"updated"`
}

// SweepAll reconciles every connected account. Users run in parallel and
// in isolation: one account's failure never blocks the others.
func (r *Reconciler) SweepAll(ctx context.Context) (SweepResult, error) {
	integrations, err := r.repo.ListGoogleIntegrations(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	results := make([]UserResult, len(integrations))

	var wg stdsync.WaitGroup
	for i := range integrations {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.SyncUser(ctx, &integrations[i])
		}(i)
	}
	wg.Wait()

	out := SweepResult{Users: results}
	for _, res := range results {
		out.Created += res.Created
		out.Updated += res.Updated
		if res.Err != nil {
			logging.Error("sync", "SweepAll", "user sweep failed", res.UserID, res.Err)
		}
	}
	return out, nil
}

// SyncUser pulls every mapped calendar of one connected account. Calendars
// are processed sequentially to keep quota usage predictable.
func (r *Reconciler) SyncUser(ctx context.Context, integration *models.UserIntegration) UserResult {
	res := UserResult{UserID: integration.UserID}

	release, ok, err := r.locker.Acquire(ctx, integration.UserID)
	if err != nil {
		res.Err = err
		return res
	}
	if !ok {
		logging.Get().WithField("user_id", integration.UserID).
			Info("sweep already running for user, skipping")
		return res
	}
	defer release()

	refreshed, err := r.provider.Refresh(ctx, integration)
	if err != nil {
		res.Err = err
		return res
	}
	if refreshed {
		if err := r.repo.SaveIntegration(ctx, integration); err != nil {
			res.Err = err
			return res
		}
	}

	now := time.Now()
	from := now.AddDate(0, 0, -r.pastDays)
	to := now.AddDate(0, 0, r.futureDays)

	placeholders := map[string]*models.Client{} // per studio, within this user

	for artistID, calendarID := range buildMapping(integration) {
		artist, err := r.repo.GetUser(ctx, artistID)
		if err != nil || artist.StudioID == "" {
			logging.Get().WithFields(logrus.Fields{
				"artist_id":   artistID,
				"calendar_id": calendarID,
			}).Warn("mapped artist has no studio, skipping calendar")
			res.Skipped++
			continue
		}

		events, err := r.provider.ListEvents(ctx, integration, calendarID, from, to)
		if err != nil {
			logging.Error("sync", "SyncUser", "fetch events", calendarID, err)
			res.Failed++
			continue
		}

		placeholder := placeholders[artist.StudioID]
		if placeholder == nil {
			placeholder, err = r.repo.FindOrCreatePlaceholderClient(ctx, artist.StudioID)
			if err != nil {
				logging.Error("sync", "SyncUser", "placeholder client", artist.StudioID, err)
				res.Failed++
				continue
			}
			placeholders[artist.StudioID] = placeholder
		}

		for _, ev := range events {
			if ev.AllDay || ev.Start.IsZero() {
				res.Skipped++
				continue
			}

			created, err := r.upsertEvent(ctx, artist, placeholder, ev)
			if err != nil {
				// one bad event never aborts the rest of the batch
				logging.Error("sync", "SyncUser", "upsert event", ev.ID, err)
				res.Failed++
				continue
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
	}

	return res
}

func (r *Reconciler) upsertEvent(
	ctx context.Context,
	artist *models.User,
	placeholder *models.Client,
	ev gcal.Event,
) (created bool, err error) {

	end := ev.End
	if !end.After(ev.Start) {
		end = ev.Start.Add(time.Hour)
	}

	serviceName := ev.Summary
	if serviceName == "" {
		serviceName = "Google Event"
	}

	externalID := ev.ID
	clientID := placeholder.ID

	ap := &models.Appointment{
		StudioID:        artist.StudioID,
		ArtistID:        artist.ID,
		ClientID:        &clientID,
		ServiceName:     serviceName,
		StartTime:       ev.Start,
		EndTime:         end,
		Status:          string(domain.ImportedStatus()),
		Notes:           "Synced from Google Calendar: " + ev.Description,
		ExternalEventID: &externalID,
	}

	return r.repo.UpsertExternal(ctx, ap)
}
