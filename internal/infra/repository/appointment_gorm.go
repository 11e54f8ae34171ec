package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/InkLinkStudio/studio-crm/internal/domain/appointment"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Studio
// --------------------------------------------------

func (r *AppointmentGormRepository) GetStudioByID(
	ctx context.Context,
	id string,
) (*models.Studio, error) {

	var studio models.Studio
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&studio).Error; err != nil {
		return nil, err
	}
	return &studio, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	studioID string,
	clientID string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND studio_id = ?", clientID, studioID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	studioID string,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ? AND studio_id = ?", appointmentID, studioID).
		First(&ap).Error; err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Where("studio_id = ?", ap.StudioID).
		Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	studioID string,
	appointmentID string,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND studio_id = ?", appointmentID, studioID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("appointment_not_found")
	}
	return nil
}

// --------------------------------------------------
// Window queries
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForWindow(
	ctx context.Context,
	studioID string,
	start time.Time,
	end time.Time,
	artistID string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"studio_id = ? AND start_time >= ? AND start_time < ?",
			studioID, start, end,
		)

	if artistID != "" {
		q = q.Where("artist_id = ?", artistID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// External event upsert (reconciliation)
// --------------------------------------------------

// UpsertExternal inserts or updates an appointment keyed by
// (studio_id, external_event_id) in a single statement, so racing sweeps
// cannot create duplicates. Only the externally-owned columns are touched
// on update; client_id, price and notes set locally stay intact.
func (r *AppointmentGormRepository) UpsertExternal(
	ctx context.Context,
	ap *models.Appointment,
) (created bool, err error) {

	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "studio_id"},
			{Name: "external_event_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_time",
			"end_time",
			"service_name",
			"artist_id",
			"updated_at",
		}),
	}).Create(ap)

	if res.Error != nil {
		return false, res.Error
	}

	// After ON CONFLICT DO UPDATE the generated id only survives on insert.
	var existing models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "created_at").
		Where("studio_id = ? AND external_event_id = ?", ap.StudioID, *ap.ExternalEventID).
		First(&existing).Error; err != nil {
		return false, err
	}

	created = existing.ID == ap.ID
	ap.ID = existing.ID
	return created, nil
}

// SetExternalEventID persists the provider-assigned id back onto a
// locally-created appointment after a push.
func (r *AppointmentGormRepository) SetExternalEventID(
	ctx context.Context,
	studioID string,
	appointmentID string,
	externalEventID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND studio_id = ?", appointmentID, studioID).
		Update("external_event_id", externalEventID).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
