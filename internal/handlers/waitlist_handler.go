package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/httpresp"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

type WaitlistHandler struct {
	db *gorm.DB
}

func NewWaitlistHandler(db *gorm.DB) *WaitlistHandler {
	return &WaitlistHandler{db: db}
}

func (h *WaitlistHandler) List(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	q := h.db.Where("studio_id = ?", studioID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var entries []models.WaitlistEntry
	if err := q.
		Preload("Client").
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_waitlist", "Errore durante il caricamento.")
		return
	}

	httpresp.List(c, entries)
}

type CreateWaitlistRequest struct {
	ClientID          string  `json:"client_id" binding:"required"`
	PreferredArtistID *string `json:"preferred_artist_id"`
	Notes             string  `json:"notes"`
}

func (h *WaitlistHandler) Create(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req CreateWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	var count int64
	h.db.Model(&models.Client{}).
		Where("id = ? AND studio_id = ?", req.ClientID, studioID).
		Count(&count)
	if count == 0 {
		httperr.NotFound(c, "client_not_found", "Cliente non trovato.")
		return
	}

	entry := models.WaitlistEntry{
		ID:                uuid.NewString(),
		StudioID:          studioID,
		ClientID:          req.ClientID,
		PreferredArtistID: req.PreferredArtistID,
		Notes:             req.Notes,
		Status:            "WAITING",
	}

	if err := h.db.Create(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_create_waitlist_entry", "Errore durante la creazione.")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

type UpdateWaitlistRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *WaitlistHandler) Update(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req UpdateWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	switch req.Status {
	case "WAITING", "CONTACTED", "BOOKED", "CANCELLED":
	default:
		httperr.BadRequest(c, "invalid_status", "Stato non valido.")
		return
	}

	var entry models.WaitlistEntry
	if err := h.db.
		Where("id = ? AND studio_id = ?", c.Param("id"), studioID).
		First(&entry).Error; err != nil {
		httperr.NotFound(c, "waitlist_entry_not_found", "Voce non trovata.")
		return
	}

	entry.Status = req.Status
	if err := h.db.Save(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_update_waitlist_entry", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *WaitlistHandler) Delete(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	res := h.db.
		Where("id = ? AND studio_id = ?", c.Param("id"), studioID).
		Delete(&models.WaitlistEntry{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_waitlist_entry", "Errore durante l'eliminazione.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "waitlist_entry_not_found", "Voce non trovata.")
		return
	}

	c.Status(http.StatusNoContent)
}
