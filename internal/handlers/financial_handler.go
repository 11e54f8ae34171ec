package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainFinance "github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/domain/schedule"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/timezone"
	ucFinance "github.com/InkLinkStudio/studio-crm/internal/usecase/finance"
)

// ======================================================
// HANDLER
// ======================================================

type FinancialHandler struct {
	db         *gorm.DB
	reportUC   *ucFinance.GetReport
	generateUC *ucFinance.GenerateRecurring
}

func NewFinancialHandler(
	db *gorm.DB,
	reportUC *ucFinance.GetReport,
	generateUC *ucFinance.GenerateRecurring,
) *FinancialHandler {
	return &FinancialHandler{
		db:         db,
		reportUC:   reportUC,
		generateUC: generateUC,
	}
}

// ======================================================
// PERIOD RESOLUTION
// ======================================================

// financialRange maps (anchor, view) to the reporting period. Unlike the
// calendar grid, the month view here is the literal calendar month.
func financialRange(anchor time.Time, view schedule.View) (start, end time.Time) {
	loc := anchor.Location()

	switch view {
	case schedule.ViewDay:
		start = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	case schedule.ViewWeek:
		w := schedule.Compute(anchor, schedule.ViewWeek)
		return w.Start, w.End
	case schedule.ViewYear:
		start = time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default: // month
		start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	}
}

// periodReference is the date the week/month/year rollups hang off: the
// final day of the selected period, not the navigation anchor. Anchoring
// a month view mid-month must still roll up the month's last week.
func periodReference(end time.Time) time.Time {
	return end.AddDate(0, 0, -1)
}

func (h *FinancialHandler) buildQuery(c *gin.Context) (ucFinance.Query, error) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	role, err := domainFinance.ParseRole(c.GetString(middleware.ContextUserRole))
	if err != nil {
		return ucFinance.Query{}, err
	}

	perspective, err := domainFinance.ParsePerspective(c.Query("perspective"))
	if err != nil {
		return ucFinance.Query{}, err
	}

	view := schedule.ViewMonth
	if v := c.Query("view"); v != "" {
		view, err = schedule.ParseView(v)
		if err != nil {
			return ucFinance.Query{}, err
		}
	}

	var studio models.Studio
	if err := h.db.Where("id = ?", studioID).First(&studio).Error; err != nil {
		return ucFinance.Query{}, err
	}
	loc := timezone.Location(studio.Timezone)

	anchor := timezone.NowIn(studio.Timezone)
	if a := c.Query("anchor"); a != "" {
		anchor, err = time.ParseInLocation("2006-01-02", a, loc)
		if err != nil {
			return ucFinance.Query{}, httperr.ErrBusiness("invalid_date_or_time")
		}
	}

	start, end := financialRange(anchor, view)

	return ucFinance.Query{
		Role:        role,
		ViewerID:    userID,
		Perspective: perspective,
		RangeStart:  start,
		RangeEnd:    end,
		Reference:   periodReference(end),
		Now:         timezone.NowIn(studio.Timezone),
	}, nil
}

// ======================================================
// REPORT
// ======================================================

func (h *FinancialHandler) Report(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	q, err := h.buildQuery(c)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	report, err := h.reportUC.Execute(c.Request.Context(), studioID, q)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ======================================================
// EXPORT
// ======================================================

func (h *FinancialHandler) Export(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	q, err := h.buildQuery(c)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	report, err := h.reportUC.Execute(c.Request.Context(), studioID, q)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		wb, err := ucFinance.BuildWorkbook(report.Rows)
		if err != nil {
			httperr.Internal(c, "export_failed", "Errore durante l'esportazione.")
			return
		}
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s", ucFinance.ExportFilename("xlsx")))
		c.Header("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := wb.Write(c.Writer); err != nil {
			httperr.Internal(c, "export_failed", "Errore durante l'esportazione.")
		}

	case "csv":
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s", ucFinance.ExportFilename("csv")))
		c.Header("Content-Type", "text/csv")
		if err := ucFinance.WriteCSV(c.Writer, report.Rows); err != nil {
			httperr.Internal(c, "export_failed", "Errore durante l'esportazione.")
		}

	default:
		httperr.BadRequest(c, "invalid_format", "Formato non supportato.")
	}
}

// ======================================================
// TRANSACTIONS
// ======================================================

type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ArtistID    *string         `json:"artist_id"`
	Category    string          `json:"category"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description"`
}

func (h *FinancialHandler) CreateTransaction(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	if req.Type != models.TxIncome && req.Type != models.TxExpense {
		httperr.BadRequest(c, "invalid_transaction_type", "Tipo di transazione non valido.")
		return
	}
	if !req.Amount.IsPositive() {
		httperr.BadRequest(c, "invalid_amount", "L'importo deve essere positivo.")
		return
	}
	// expenses never carry an artist attribution
	if req.Type == models.TxExpense {
		req.ArtistID = nil
	}

	var studio models.Studio
	if err := h.db.Where("id = ?", studioID).First(&studio).Error; err != nil {
		httperr.NotFound(c, "studio_not_found", "Studio non trovato.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, timezone.Location(studio.Timezone))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data non valida.")
		return
	}

	tx := models.Transaction{
		ID:          uuid.NewString(),
		StudioID:    studioID,
		Type:        req.Type,
		Amount:      req.Amount,
		ArtistID:    req.ArtistID,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
	}

	if err := h.db.Create(&tx).Error; err != nil {
		httperr.Internal(c, "failed_to_create_transaction", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *FinancialHandler) DeleteTransaction(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	res := h.db.
		Where("id = ? AND studio_id = ?", c.Param("id"), studioID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_transaction", "Errore durante l'eliminazione.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "transaction_not_found", "Transazione non trovata.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// RECURRING EXPENSES
// ======================================================

type RecurringExpenseRequest struct {
	Name       string          `json:"name" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Category   string          `json:"category"`
	DayOfMonth int             `json:"day_of_month" binding:"required"`
}

func (h *FinancialHandler) ListRecurring(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var recs []models.RecurringExpense
	if err := h.db.
		Where("studio_id = ?", studioID).
		Order("day_of_month ASC").
		Find(&recs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_recurring", "Errore durante il caricamento.")
		return
	}

	c.JSON(http.StatusOK, recs)
}

func (h *FinancialHandler) CreateRecurring(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req RecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}
	if req.DayOfMonth < 1 || req.DayOfMonth > 28 {
		httperr.BadRequest(c, "invalid_day_of_month", "Il giorno deve essere tra 1 e 28.")
		return
	}
	if !req.Amount.IsPositive() {
		httperr.BadRequest(c, "invalid_amount", "L'importo deve essere positivo.")
		return
	}

	rec := models.RecurringExpense{
		ID:         uuid.NewString(),
		StudioID:   studioID,
		Name:       req.Name,
		Amount:     req.Amount,
		Category:   req.Category,
		DayOfMonth: req.DayOfMonth,
	}

	if err := h.db.Create(&rec).Error; err != nil {
		httperr.Internal(c, "failed_to_create_recurring", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *FinancialHandler) DeleteRecurring(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	res := h.db.
		Where("id = ? AND studio_id = ?", c.Param("id"), studioID).
		Delete(&models.RecurringExpense{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_recurring", "Errore durante l'eliminazione.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "recurring_not_found", "Spesa ricorrente non trovata.")
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateRecurring posts this month's recurring expenses. Re-running it
// is safe: each expense posts at most once per month.
func (h *FinancialHandler) GenerateRecurring(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var studio models.Studio
	if err := h.db.Where("id = ?", studioID).First(&studio).Error; err != nil {
		httperr.NotFound(c, "studio_not_found", "Studio non trovato.")
		return
	}

	generated, err := h.generateUC.Execute(
		c.Request.Context(),
		studioID,
		userID,
		timezone.NowIn(studio.Timezone),
	)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"generated": generated})
}
