package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

func setupAcademyRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Studio{}, &models.User{},
		&models.Course{}, &models.CourseEnrollment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seed := []any{
		&models.Studio{ID: "studio-1", Name: "Ink Link", Slug: "ink-link", AcademyTermsVersion: 2},
		&models.Studio{ID: "studio-2", Name: "Altro", Slug: "altro"},
		&models.User{ID: "student-1", StudioID: "studio-1", FullName: "Gio",
			Email: "gio@inklink.it", PasswordHash: "x", Role: "artist", Active: true},
		&models.User{ID: "outsider-1", StudioID: "studio-2", FullName: "Estraneo",
			Email: "estraneo@altro.it", PasswordHash: "x", Role: "artist", Active: true},
		&models.Course{ID: "course-1", StudioID: "studio-1", Name: "Linee e ombre", Active: true},
	}
	for _, row := range seed {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "owner-1")
		c.Set(middleware.ContextStudioID, "studio-1")
		c.Set(middleware.ContextUserRole, "OWNER")
		c.Next()
	})
	h := NewAcademyHandler(db)
	r.POST("/me/academy/courses/:id/enrollments", h.Enroll)
	return r, db
}

func postEnroll(r *gin.Engine, courseID, studentID string) *httptest.ResponseRecorder {
	body := `{"student_id":"` + studentID + `","accept_terms":true}`
	req := httptest.NewRequest(http.MethodPost,
		"/me/academy/courses/"+courseID+"/enrollments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnrollRejectsStudentOutsideStudio(t *testing.T) {
	r, db := setupAcademyRouter(t)

	for _, studentID := range []string{"outsider-1", "no-such-user"} {
		w := postEnroll(r, "course-1", studentID)
		if w.Code != http.StatusNotFound {
			t.Errorf("enroll %q: status = %d, want 404", studentID, w.Code)
		}
	}

	var count int64
	db.Model(&models.CourseEnrollment{}).Count(&count)
	if count != 0 {
		t.Errorf("dangling enrollments created: %d", count)
	}
}

func TestEnrollStampsCurrentTermsVersion(t *testing.T) {
	r, db := setupAcademyRouter(t)

	w := postEnroll(r, "course-1", "student-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var enrollment models.CourseEnrollment
	if err := db.Where("course_id = ? AND student_id = ?", "course-1", "student-1").
		First(&enrollment).Error; err != nil {
		t.Fatalf("enrollment not persisted: %v", err)
	}
	if enrollment.AcceptedTermsVersion != 2 {
		t.Errorf("terms version = %d, want 2", enrollment.AcceptedTermsVersion)
	}
}
