package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	ucSync "github.com/InkLinkStudio/studio-crm/internal/usecase/sync"
)

// ======================================================
// HANDLER
// ======================================================

type IntegrationHandler struct {
	db         *gorm.DB
	gcal       *gcal.Client
	reconciler *ucSync.Reconciler
}

func NewIntegrationHandler(
	db *gorm.DB,
	gcalClient *gcal.Client,
	reconciler *ucSync.Reconciler,
) *IntegrationHandler {
	return &IntegrationHandler{
		db:         db,
		gcal:       gcalClient,
		reconciler: reconciler,
	}
}

// ======================================================
// CONNECT / DISCONNECT
// ======================================================

type ConnectRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirect_uri" binding:"required"`
}

// Connect exchanges the OAuth authorization code obtained by the frontend
// and stores (or replaces) the user's Google Calendar integration.
func (h *IntegrationHandler) Connect(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	token, err := h.gcal.Exchange(c.Request.Context(), req.Code, req.RedirectURI)
	if err != nil {
		httperr.BadRequest(c, "oauth_exchange_failed", "Scambio del codice OAuth fallito.")
		return
	}
	if token.RefreshToken == "" {
		httperr.BadRequest(c, "missing_refresh_token", "Google non ha restituito un refresh token. Riprova revocando l'accesso.")
		return
	}

	var integration models.UserIntegration
	err = h.db.
		Where("user_id = ? AND provider = ?", userID, models.ProviderGoogle).
		First(&integration).Error

	switch {
	case err == gorm.ErrRecordNotFound:
		integration = models.UserIntegration{
			ID:       uuid.NewString(),
			UserID:   userID,
			Provider: models.ProviderGoogle,
		}
	case err != nil:
		httperr.Internal(c, "integration_lookup_failed", "Errore interno.")
		return
	}

	integration.AccessToken = token.AccessToken
	integration.RefreshToken = token.RefreshToken
	integration.ExpiresAt = token.Expiry

	if err := h.db.Save(&integration).Error; err != nil {
		httperr.Internal(c, "integration_save_failed", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	res := h.db.
		Where("user_id = ? AND provider = ?", userID, models.ProviderGoogle).
		Delete(&models.UserIntegration{})
	if res.Error != nil {
		httperr.Internal(c, "integration_delete_failed", "Errore durante la disconnessione.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "integration_not_found", "Nessuna integrazione attiva.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *IntegrationHandler) Status(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var integration models.UserIntegration
	err := h.db.
		Where("user_id = ? AND provider = ?", userID, models.ProviderGoogle).
		First(&integration).Error

	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	if err != nil {
		httperr.Internal(c, "integration_lookup_failed", "Errore interno.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":        true,
		"expires_at":       integration.ExpiresAt,
		"calendar_mapping": integration.CalendarMapping,
	})
}

// ======================================================
// CALENDARS / MAPPING
// ======================================================

func (h *IntegrationHandler) ListCalendars(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	integration, err := h.loadIntegration(c, userID)
	if err != nil {
		return
	}

	calendars, err := h.gcal.ListCalendars(c.Request.Context(), integration)
	if err != nil {
		httperr.Internal(c, "calendar_list_failed", "Impossibile caricare i calendari.")
		return
	}

	c.JSON(http.StatusOK, calendars)
}

type SetMappingRequest struct {
	CalendarMapping map[string]string `json:"calendar_mapping" binding:"required"`
}

// SetMapping replaces the artist -> calendar id mapping used by the sync.
func (h *IntegrationHandler) SetMapping(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req SetMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	// every mapped artist must belong to the caller's studio
	for artistID := range req.CalendarMapping {
		var count int64
		h.db.Model(&models.User{}).
			Where("id = ? AND studio_id = ?", artistID, studioID).
			Count(&count)
		if count == 0 {
			httperr.BadRequest(c, "unknown_artist", "Artista non appartenente allo studio.")
			return
		}
	}

	integration, err := h.loadIntegration(c, userID)
	if err != nil {
		return
	}

	integration.CalendarMapping = req.CalendarMapping
	if err := h.db.Save(integration).Error; err != nil {
		httperr.Internal(c, "integration_save_failed", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"calendar_mapping": integration.CalendarMapping})
}

// ======================================================
// SYNC TRIGGER
// ======================================================

// TriggerSync runs the pull reconciliation for the caller's own account.
func (h *IntegrationHandler) TriggerSync(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	integration, err := h.loadIntegration(c, userID)
	if err != nil {
		return
	}

	result := h.reconciler.SyncUser(c.Request.Context(), integration)
	if result.Err != nil {
		httperr.Internal(c, "sync_failed", "Sincronizzazione fallita.")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// HELPERS
// ======================================================

func (h *IntegrationHandler) loadIntegration(c *gin.Context, userID string) (*models.UserIntegration, error) {
	var integration models.UserIntegration
	err := h.db.
		Where("user_id = ? AND provider = ?", userID, models.ProviderGoogle).
		First(&integration).Error

	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "integration_not_found", "Nessuna integrazione attiva.")
		return nil, err
	}
	if err != nil {
		httperr.Internal(c, "integration_lookup_failed", "Errore interno.")
		return nil, err
	}
	return &integration, nil
}
