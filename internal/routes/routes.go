package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/InkLinkStudio/studio-crm/internal/audit"
	"github.com/InkLinkStudio/studio-crm/internal/config"
	"github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	"github.com/InkLinkStudio/studio-crm/internal/handlers"
	infraRepo "github.com/InkLinkStudio/studio-crm/internal/infra/repository"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/storage"
	"github.com/InkLinkStudio/studio-crm/internal/synclock"
	ucAppointment "github.com/InkLinkStudio/studio-crm/internal/usecase/appointment"
	ucFinance "github.com/InkLinkStudio/studio-crm/internal/usecase/finance"
	ucSync "github.com/InkLinkStudio/studio-crm/internal/usecase/sync"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	locker *synclock.Locker,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	financeRepo := infraRepo.NewFinanceGormRepository(db)
	syncStore := infraRepo.NewSyncStore(db)

	gcalClient := gcal.New(cfg)
	uploader := storage.New(cfg)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — SYNC
	// ======================================================
	reconciler := ucSync.NewReconciler(
		syncStore,
		gcalClient,
		locker,
		cfg.SyncPastDays,
		cfg.SyncFutureDays,
	)

	pusher := ucSync.NewPusher(syncStore, gcalClient)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
		pusher,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo,
		auditDispatcher,
		pusher,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
		pusher,
	)

	setStatusUC := ucAppointment.NewSetAppointmentStatus(
		appointmentRepo,
		auditDispatcher,
	)

	listWindowUC := ucAppointment.NewListWindow(appointmentRepo)

	// ======================================================
	// USE CASES — FINANCIALS
	// ======================================================
	reportUC := ucFinance.NewGetReport(financeRepo)

	generateRecurringUC := ucFinance.NewGenerateRecurring(
		financeRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	studioHandler := handlers.NewStudioHandler(db)

	clientHandler := handlers.NewClientHandler(db)
	teamHandler := handlers.NewTeamHandler(db)
	waitlistHandler := handlers.NewWaitlistHandler(db)
	academyHandler := handlers.NewAcademyHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		setStatusUC,
		listWindowUC,
	)

	financialHandler := handlers.NewFinancialHandler(
		db,
		reportUC,
		generateRecurringUC,
	)

	integrationHandler := handlers.NewIntegrationHandler(
		db,
		gcalClient,
		reconciler,
	)

	uploadHandler := handlers.NewUploadHandler(uploader)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	managers := middleware.RequireRole(finance.RoleOwner, finance.RoleManager)
	// Reception staff handle the agenda, never the money.
	earners := middleware.RequireRole(finance.RoleOwner, finance.RoleManager, finance.RoleArtist)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/studio", studioHandler.GetMeStudio)
			secured.PATCH("/me/studio", managers, studioHandler.UpdateMeStudio)

			// ------------------------------
			// CLIENTS
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.DELETE("/me/clients/:id", managers, clientHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.ListWindow)
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.SetStatus)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)

			secured.POST("/me/uploads/images", uploadHandler.UploadImage)

			// ------------------------------
			// FINANCIALS
			// ------------------------------
			secured.GET("/me/financials", earners, financialHandler.Report)
			secured.GET("/me/financials/export", managers, financialHandler.Export)

			secured.POST("/me/financials/transactions", managers, financialHandler.CreateTransaction)
			secured.DELETE("/me/financials/transactions/:id", managers, financialHandler.DeleteTransaction)

			secured.GET("/me/financials/recurring", managers, financialHandler.ListRecurring)
			secured.POST("/me/financials/recurring", managers, financialHandler.CreateRecurring)
			secured.DELETE("/me/financials/recurring/:id", managers, financialHandler.DeleteRecurring)
			secured.POST("/me/financials/recurring/generate", managers, financialHandler.GenerateRecurring)

			// ------------------------------
			// TEAM
			// ------------------------------
			secured.GET("/me/team", teamHandler.List)
			secured.POST("/me/team", managers, teamHandler.Create)
			secured.PATCH("/me/team/:id", managers, teamHandler.Update)
			secured.PUT("/me/team/:id/contract", managers, teamHandler.UpsertContract)

			// ------------------------------
			// INTEGRATIONS
			// ------------------------------
			secured.GET("/me/integrations/google", integrationHandler.Status)
			secured.POST("/me/integrations/google", integrationHandler.Connect)
			secured.DELETE("/me/integrations/google", integrationHandler.Disconnect)
			secured.GET("/me/integrations/google/calendars", integrationHandler.ListCalendars)
			secured.PUT("/me/integrations/google/mapping", integrationHandler.SetMapping)
			secured.POST("/me/integrations/google/sync", integrationHandler.TriggerSync)

			// ------------------------------
			// WAITLIST
			// ------------------------------
			secured.GET("/me/waitlist", waitlistHandler.List)
			secured.POST("/me/waitlist", waitlistHandler.Create)
			secured.PATCH("/me/waitlist/:id", waitlistHandler.Update)
			secured.DELETE("/me/waitlist/:id", waitlistHandler.Delete)

			// ------------------------------
			// ACADEMY
			// ------------------------------
			secured.GET("/me/academy/courses", academyHandler.ListCourses)
			secured.POST("/me/academy/courses", managers, academyHandler.CreateCourse)
			secured.GET("/me/academy/courses/:id/enrollments", academyHandler.ListEnrollments)
			secured.POST("/me/academy/courses/:id/enrollments", managers, academyHandler.Enroll)
			secured.POST("/me/academy/enrollments/:id/attendance", academyHandler.RecordAttendance)

			// ------------------------------
			// AUDIT
			// ------------------------------
			secured.GET("/me/audit-logs", managers, auditLogsHandler.List)
		}
	}
}
