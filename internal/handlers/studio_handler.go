package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/timezone"
)

type StudioHandler struct {
	db *gorm.DB
}

func NewStudioHandler(db *gorm.DB) *StudioHandler {
	return &StudioHandler{db: db}
}

func (h *StudioHandler) GetMeStudio(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var studio models.Studio
	if err := h.db.Where("id = ?", studioID).First(&studio).Error; err != nil {
		httperr.NotFound(c, "studio_not_found", "Studio non trovato.")
		return
	}

	c.JSON(http.StatusOK, studio)
}

type UpdateStudioRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`

	SheetsSpreadsheetID *string `json:"sheets_spreadsheet_id"`
	SheetsSheetName     *string `json:"sheets_sheet_name"`
}

func (h *StudioHandler) UpdateMeStudio(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	var studio models.Studio
	if err := h.db.Where("id = ?", studioID).First(&studio).Error; err != nil {
		httperr.NotFound(c, "studio_not_found", "Studio non trovato.")
		return
	}

	if req.Name != nil {
		studio.Name = *req.Name
	}
	if req.Phone != nil {
		studio.Phone = *req.Phone
	}
	if req.Address != nil {
		studio.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone non valida.")
			return
		}
		studio.Timezone = *req.Timezone
	}
	if req.SheetsSpreadsheetID != nil {
		studio.SheetsSpreadsheetID = *req.SheetsSpreadsheetID
	}
	if req.SheetsSheetName != nil {
		studio.SheetsSheetName = *req.SheetsSheetName
	}

	if err := h.db.Save(&studio).Error; err != nil {
		httperr.Internal(c, "studio_update_failed", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, studio)
}
