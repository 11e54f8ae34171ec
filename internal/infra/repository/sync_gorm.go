package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// SyncGormRepository backs the calendar reconciler: integrations, artist
// lookups and the per-studio placeholder client.
type SyncGormRepository struct {
	db *gorm.DB
}

func NewSyncGormRepository(db *gorm.DB) *SyncGormRepository {
	return &SyncGormRepository{db: db}
}

// --------------------------------------------------
// Integrations
// --------------------------------------------------

func (r *SyncGormRepository) ListGoogleIntegrations(
	ctx context.Context,
) ([]models.UserIntegration, error) {

	var integrations []models.UserIntegration
	if err := r.db.WithContext(ctx).
		Where("provider = ?", models.ProviderGoogle).
		Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *SyncGormRepository) GetIntegration(
	ctx context.Context,
	userID string,
) (*models.UserIntegration, error) {

	var integration models.UserIntegration
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, models.ProviderGoogle).
		First(&integration).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *SyncGormRepository) SaveIntegration(
	ctx context.Context,
	integration *models.UserIntegration,
) error {
	if integration.ID == "" {
		integration.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Save(integration).Error
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *SyncGormRepository) GetUser(
	ctx context.Context,
	userID string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Placeholder client
// --------------------------------------------------

// FindOrCreatePlaceholderClient returns the studio's sentinel "external
// import" client, creating it on first use.
func (r *SyncGormRepository) FindOrCreatePlaceholderClient(
	ctx context.Context,
	studioID string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_placeholder = true", studioID).
		Attrs(models.Client{
			ID:            uuid.NewString(),
			StudioID:      studioID,
			FullName:      models.PlaceholderClientName,
			IsPlaceholder: true,
		}).
		FirstOrCreate(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}
