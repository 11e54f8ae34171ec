package appointment

import (
	"context"
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/logging"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/usecase/sync"
)

// Mirror pushes local appointment changes to the external calendar.
// *sync.Pusher satisfies it; tests plug a fake.
type Mirror interface {
	Push(ctx context.Context, action sync.Action, ap *models.Appointment, actorUserID string) error
}

const mirrorTimeout = 30 * time.Second

// pushAsync mirrors the change off the request path. The local write is
// already committed; a failed push only logs.
func pushAsync(mirror Mirror, action sync.Action, ap models.Appointment, actorUserID string) {
	if mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()

		if err := mirror.Push(ctx, action, &ap, actorUserID); err != nil {
			logging.Error("appointment", "pushAsync", "calendar push failed", map[string]any{
				"appointment_id": ap.ID,
				"action":         string(action),
			}, err)
		}
	}()
}
