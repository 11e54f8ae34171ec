package appointment

import (
	"context"
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// Repository is the appointment store. Every operation is scoped by
// studio id; a missed filter would leak one studio's data into another's.
type Repository interface {
	// -------- Studio --------
	GetStudioByID(
		ctx context.Context,
		id string,
	) (*models.Studio, error)

	// -------- Client --------
	GetClient(
		ctx context.Context,
		studioID string,
		clientID string,
	) (*models.Client, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		studioID string,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		studioID string,
		appointmentID string,
	) error

	// -------- Window queries --------
	// artistID == "" means all artists in the studio.
	ListForWindow(
		ctx context.Context,
		studioID string,
		start time.Time,
		end time.Time,
		artistID string,
	) ([]models.Appointment, error)
}
