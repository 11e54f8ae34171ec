package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/httpresp"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ======================================================
// LIST
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	// placeholder clients exist only to anchor imported events
	q := h.db.Where("studio_id = ? AND is_placeholder = false", studioID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Errore durante il caricamento dei clienti.")
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// CREATE
// ======================================================

type CreateClientRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	client := models.Client{
		ID:       uuid.NewString(),
		StudioID: studioID,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    req.Phone,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Notes:    req.Notes,
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Errore durante la creazione del cliente.")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// ======================================================
// UPDATE
// ======================================================

type UpdateClientRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
}

func (h *ClientHandler) Update(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)
	clientID := c.Param("id")

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND studio_id = ? AND is_placeholder = false", clientID, studioID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente non trovato.")
		return
	}

	if req.FullName != nil {
		client.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, client)
}

// ======================================================
// DELETE
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)
	clientID := c.Param("id")

	res := h.db.
		Where("id = ? AND studio_id = ? AND is_placeholder = false", clientID, studioID).
		Delete(&models.Client{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_client", "Errore durante l'eliminazione.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "client_not_found", "Cliente non trovato.")
		return
	}

	c.Status(http.StatusNoContent)
}
