package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AcademyHandler struct {
	db *gorm.DB
}

func NewAcademyHandler(db *gorm.DB) *AcademyHandler {
	return &AcademyHandler{db: db}
}

// ======================================================
// COURSES
// ======================================================

func (h *AcademyHandler) ListCourses(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var courses []models.Course
	if err := h.db.
		Where("studio_id = ?", studioID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		httperr.Internal(c, "failed_to_list_courses", "Errore durante il caricamento dei corsi.")
		return
	}

	c.JSON(http.StatusOK, courses)
}

type CourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *AcademyHandler) CreateCourse(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	course := models.Course{
		ID:          uuid.NewString(),
		StudioID:    studioID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}

	if err := h.db.Create(&course).Error; err != nil {
		httperr.Internal(c, "failed_to_create_course", "Errore durante la creazione del corso.")
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ======================================================
// ENROLLMENTS
// ======================================================

type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	// Terms acceptance is versioned: enrolling binds the student to the
	// studio's current terms version.
	AcceptTerms bool `json:"accept_terms"`
}

func (h *AcademyHandler) Enroll(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)
	courseID := c.Param("id")

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}
	if !req.AcceptTerms {
		httperr.BadRequest(c, "terms_not_accepted", "I termini del corso devono essere accettati.")
		return
	}

	var course models.Course
	if err := h.db.
		Where("id = ? AND studio_id = ? AND active = true", courseID, studioID).
		First(&course).Error; err != nil {
		httperr.NotFound(c, "course_not_found", "Corso non trovato.")
		return
	}

	var studentCount int64
	h.db.Model(&models.User{}).
		Where("id = ? AND studio_id = ?", req.StudentID, studioID).
		Count(&studentCount)
	if studentCount == 0 {
		httperr.NotFound(c, "student_not_found", "Studente non trovato.")
		return
	}

	var studio models.Studio
	if err := h.db.Where("id = ?", studioID).First(&studio).Error; err != nil {
		httperr.Internal(c, "studio_lookup_failed", "Errore interno.")
		return
	}

	var count int64
	h.db.Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, req.StudentID).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "already_enrolled", "Studente già iscritto al corso.")
		return
	}

	enrollment := models.CourseEnrollment{
		ID:                   uuid.NewString(),
		CourseID:             courseID,
		StudentID:            req.StudentID,
		AcceptedTermsVersion: studio.AcademyTermsVersion,
	}

	if err := h.db.Create(&enrollment).Error; err != nil {
		httperr.Internal(c, "failed_to_enroll", "Errore durante l'iscrizione.")
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *AcademyHandler) ListEnrollments(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)
	courseID := c.Param("id")

	var count int64
	h.db.Model(&models.Course{}).
		Where("id = ? AND studio_id = ?", courseID, studioID).
		Count(&count)
	if count == 0 {
		httperr.NotFound(c, "course_not_found", "Corso non trovato.")
		return
	}

	var enrollments []models.CourseEnrollment
	if err := h.db.
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&enrollments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_enrollments", "Errore durante il caricamento.")
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// ======================================================
// ATTENDANCE
// ======================================================

type AttendanceRequest struct {
	SessionDate string `json:"session_date" binding:"required"` // 2006-01-02
	Hours       int    `json:"hours"`
	Present     bool   `json:"present"`
}

// RecordAttendance upserts one attendance row per (enrollment, session day).
func (h *AcademyHandler) RecordAttendance(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)
	enrollmentID := c.Param("id")

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	var enrollment models.CourseEnrollment
	if err := h.db.
		Joins("JOIN courses ON courses.id = course_enrollments.course_id").
		Where("course_enrollments.id = ? AND courses.studio_id = ?", enrollmentID, studioID).
		First(&enrollment).Error; err != nil {
		httperr.NotFound(c, "enrollment_not_found", "Iscrizione non trovata.")
		return
	}

	sessionDate, err := time.ParseInLocation("2006-01-02", req.SessionDate, timezone.Location(timezone.DefaultTimezone))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data non valida.")
		return
	}

	var attendance models.CourseAttendance
	lookupErr := h.db.
		Where("enrollment_id = ? AND session_date = ?", enrollmentID, sessionDate).
		First(&attendance).Error

	if lookupErr == gorm.ErrRecordNotFound {
		attendance = models.CourseAttendance{
			ID:           uuid.NewString(),
			EnrollmentID: enrollmentID,
			SessionDate:  sessionDate,
		}
	} else if lookupErr != nil {
		httperr.Internal(c, "attendance_lookup_failed", "Errore interno.")
		return
	}

	attendance.Hours = req.Hours
	attendance.Present = req.Present

	if err := h.db.Save(&attendance).Error; err != nil {
		httperr.Internal(c, "failed_to_save_attendance", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, attendance)
}
