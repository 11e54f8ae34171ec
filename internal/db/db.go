package db

import (
	"log"
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/config"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Studio{},
		&models.User{},
		&models.ArtistContract{},
		&models.Client{},
		&models.Appointment{},
		&models.Transaction{},
		&models.RecurringExpense{},
		&models.RecurringExpensePosting{},
		&models.UserIntegration{},
		&models.WaitlistEntry{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.CourseAttendance{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE studios
        SET timezone = 'Europe/Rome'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}
