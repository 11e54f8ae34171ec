// Package gcal is the Google Calendar side of the reconciler: OAuth token
// refresh plus the calendar-list and events endpoints, behind the small
// provider interface the sync use cases consume.
package gcal

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/InkLinkStudio/studio-crm/internal/config"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// RefreshBuffer refreshes tokens that expire within the next minute,
// so a token never dies mid-sweep.
const RefreshBuffer = time.Minute

// Event is the provider-neutral shape of one timed calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// CalendarInfo describes one calendar of the connected account.
type CalendarInfo struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Primary bool   `json:"primary"`
}

type Client struct {
	oauth   *oauth2.Config
	timeout time.Duration
}

func New(cfg *config.Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarScope},
		},
		timeout: cfg.SyncHTTPTimeout,
	}
}

// Exchange trades an OAuth authorization code for the token pair stored on
// a new integration. redirectURI must match the one used by the frontend
// when it obtained the code.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
		oauth2.AccessTypeOffline,
	)
}

// Refresh exchanges the refresh token for a fresh access token when the
// stored one is expired or inside the refresh buffer. The integration is
// mutated with the new token and expiry; the caller persists it.
func (c *Client) Refresh(ctx context.Context, integration *models.UserIntegration) (refreshed bool, err error) {
	if !integration.TokenExpired(time.Now(), RefreshBuffer) {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tok, err := c.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: integration.RefreshToken,
	}).Token()
	if err != nil {
		return false, err
	}

	integration.AccessToken = tok.AccessToken
	integration.ExpiresAt = tok.Expiry
	if tok.RefreshToken != "" {
		integration.RefreshToken = tok.RefreshToken
	}
	return true, nil
}

func (c *Client) service(ctx context.Context, integration *models.UserIntegration) (*calendar.Service, error) {
	tok := &oauth2.Token{
		AccessToken:  integration.AccessToken,
		RefreshToken: integration.RefreshToken,
		Expiry:       integration.ExpiresAt,
	}
	return calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(tok)))
}

// ListCalendars returns the account's calendar list.
func (c *Client) ListCalendars(ctx context.Context, integration *models.UserIntegration) ([]CalendarInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, integration)
	if err != nil {
		return nil, err
	}

	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	out := make([]CalendarInfo, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, CalendarInfo{
			ID:      item.Id,
			Summary: item.Summary,
			Primary: item.Primary,
		})
	}
	return out, nil
}

// ListEvents fetches single (non-recurring-expanded) events in [from, to).
func (c *Client) ListEvents(
	ctx context.Context,
	integration *models.UserIntegration,
	calendarID string,
	from, to time.Time,
) ([]Event, error) {

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, integration)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		Context(ctx)

	var out []Event
	if err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			out = append(out, fromGoogleEvent(item))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateEvent(
	ctx context.Context,
	integration *models.UserIntegration,
	calendarID string,
	ev Event,
) (string, error) {

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, integration)
	if err != nil {
		return "", err
	}

	created, err := svc.Events.Insert(calendarID, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (c *Client) UpdateEvent(
	ctx context.Context,
	integration *models.UserIntegration,
	calendarID string,
	eventID string,
	ev Event,
) error {

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, integration)
	if err != nil {
		return err
	}

	_, err = svc.Events.Update(calendarID, eventID, toGoogleEvent(ev)).Context(ctx).Do()
	return err
}

func (c *Client) DeleteEvent(
	ctx context.Context,
	integration *models.UserIntegration,
	calendarID string,
	eventID string,
) error {

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, integration)
	if err != nil {
		return err
	}

	return svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func fromGoogleEvent(item *calendar.Event) Event {
	ev := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
	}

	// All-day/floating events carry only a date, not a timestamp.
	if item.Start == nil || item.Start.DateTime == "" {
		ev.AllDay = true
		return ev
	}

	if start, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
		ev.Start = start
	}
	if item.End != nil && item.End.DateTime != "" {
		if end, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
			ev.End = end
		}
	}
	if ev.End.IsZero() {
		ev.End = ev.Start
	}
	return ev
}

func toGoogleEvent(ev Event) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}
}
