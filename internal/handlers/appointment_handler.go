package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/domain/schedule"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	ucAppointment "github.com/InkLinkStudio/studio-crm/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC    *ucAppointment.CreateAppointment
	updateUC    *ucAppointment.UpdateAppointment
	deleteUC    *ucAppointment.DeleteAppointment
	setStatusUC *ucAppointment.SetAppointmentStatus
	listUC      *ucAppointment.ListWindow
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	setStatusUC *ucAppointment.SetAppointmentStatus,
	listUC *ucAppointment.ListWindow,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:    createUC,
		updateUC:    updateUC,
		deleteUC:    deleteUC,
		setStatusUC: setStatusUC,
		listUC:      listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID *string `json:"client_id"`
	ArtistID string  `json:"artist_id" binding:"required"`

	ServiceName string `json:"service_name"`

	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`

	Price   decimal.Decimal `json:"price"`
	Deposit decimal.Decimal `json:"deposit"`

	Notes  string   `json:"notes"`
	Images []string `json:"images"`
}

type UpdateAppointmentRequest struct {
	ClientID *string `json:"client_id"`
	ArtistID *string `json:"artist_id"`

	ServiceName *string `json:"service_name"`

	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`

	Price   *decimal.Decimal `json:"price"`
	Deposit *decimal.Decimal `json:"deposit"`

	Notes  *string  `json:"notes"`
	Images []string `json:"images"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		StudioID:    studioID,
		ActorUserID: userID,
		ClientID:    req.ClientID,
		ArtistID:    req.ArtistID,
		ServiceName: req.ServiceName,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Price:       req.Price,
		Deposit:     req.Deposit,
		Notes:       req.Notes,
		Images:      req.Images,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		StudioID:      studioID,
		ActorUserID:   userID,
		AppointmentID: c.Param("id"),
		ClientID:      req.ClientID,
		ArtistID:      req.ArtistID,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Price:         req.Price,
		Deposit:       req.Deposit,
		Notes:         req.Notes,
		Images:        req.Images,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	err := h.deleteUC.Execute(c.Request.Context(), studioID, userID, c.Param("id"))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	ap, err := h.setStatusUC.Execute(c.Request.Context(), studioID, userID, c.Param("id"), req.Status)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// LIST (CALENDAR WINDOW)
// ======================================================

func (h *AppointmentHandler) ListWindow(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	artistID := c.Query("artist_id")

	// artists only ever see their own agenda
	if role, err := finance.ParseRole(c.GetString(middleware.ContextUserRole)); err == nil && role == finance.RoleArtist {
		artistID = userID
	}

	out, err := h.listUC.Execute(c.Request.Context(), ucAppointment.ListWindowInput{
		StudioID: studioID,
		View:     c.DefaultQuery("view", string(schedule.ViewWeek)),
		Anchor:   c.Query("anchor"),
		ArtistID: artistID,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
