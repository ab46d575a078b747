package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/attendance"
	"github.com/rahadianw/siteops/internal/audit"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/core/events"
	"github.com/rahadianw/siteops/internal/document"
	"github.com/rahadianw/siteops/internal/equipment"
	"github.com/rahadianw/siteops/internal/material"
	"github.com/rahadianw/siteops/internal/notification"
	"github.com/rahadianw/siteops/internal/project"
	"github.com/rahadianw/siteops/internal/report"
	"github.com/rahadianw/siteops/internal/site"
	"github.com/rahadianw/siteops/internal/task"
	"github.com/rahadianw/siteops/internal/transport/middleware"
	"github.com/rahadianw/siteops/internal/transport/swagger"
	"github.com/rahadianw/siteops/internal/user"
)

// Handlers bundles every REST handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Project      *project.Handler
	Site         *site.Handler
	Task         *task.Handler
	Material     *material.Handler
	Equipment    *equipment.Handler
	Attendance   *attendance.Handler
	Notification *notification.Handler
	Document     *document.Handler
	Report       *report.Handler
	Audit        *audit.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, h Handlers, rbac *auth.RBACAuthorization, bus *events.EventBus, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.AuthMiddleware)
				ar.Get("/me", h.Auth.Me)
			})
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.AuditTrail(bus))

			pr.Route("/users", func(ur chi.Router) {
				ur.With(rbac.Require(auth.CapViewUsers)).Get("/", h.User.List)
				ur.With(rbac.Require(auth.CapManageUsers)).Post("/", h.User.Create)
				ur.Get("/{id}", h.User.Get)
				ur.With(rbac.Require(auth.CapManageUsers)).Put("/{id}", h.User.Update)
				ur.With(rbac.Require(auth.CapManageUsers)).Patch("/{id}/deactivate", h.User.Deactivate)
			})

			pr.Route("/projects", func(ur chi.Router) {
				ur.Get("/", h.Project.List)
				ur.With(rbac.Require(auth.CapManageProjects)).Post("/", h.Project.Create)
				ur.Get("/{id}", h.Project.Get)
				ur.With(rbac.Require(auth.CapManageProjects)).Put("/{id}", h.Project.Update)
				ur.Get("/{id}/sites", h.Site.ListByProject)
			})

			pr.Route("/sites", func(ur chi.Router) {
				ur.Get("/", h.Site.List)
				ur.With(rbac.Require(auth.CapManageSites)).Post("/", h.Site.Create)
				ur.Get("/{id}", h.Site.Get)
				ur.With(rbac.Require(auth.CapManageSites)).Put("/{id}", h.Site.Update)
				ur.With(rbac.Require(auth.CapManageSites)).Post("/{id}/assign-worker", h.Site.AssignWorker)
				ur.Get("/{id}/team", h.Site.Team)
				ur.With(rbac.Require(auth.CapManageSites)).Delete("/{id}/team/{worker_id}", h.Site.RemoveWorker)
			})

			pr.Route("/tasks", func(ur chi.Router) {
				ur.Get("/", h.Task.List)
				ur.With(rbac.Require(auth.CapAssignTasks)).Post("/", h.Task.Create)
				ur.Get("/activities/daily", h.Task.ListDailyActivities)
				ur.Post("/activities", h.Task.CreateDailyActivity)
				ur.Get("/{id}", h.Task.Get)
				ur.Put("/{id}", h.Task.Update)
				ur.Post("/{id}/updates", h.Task.AddProgress)
			})

			pr.Route("/materials", func(ur chi.Router) {
				ur.Get("/", h.Material.List)
				ur.With(rbac.Require(auth.CapManageMaterials)).Post("/", h.Material.Create)
				ur.Get("/inventory/{siteId}", h.Material.SiteInventory)
				ur.Post("/transactions", h.Material.RecordTransaction)
				ur.Post("/requisitions", h.Material.CreateRequisition)
				ur.Get("/requisitions", h.Material.ListRequisitions)
				ur.With(rbac.Require(auth.CapApproveRequisitions)).Patch("/requisitions/{id}/approve", h.Material.DecideRequisition)
			})

			pr.Route("/equipment", func(ur chi.Router) {
				ur.Get("/", h.Equipment.List)
				ur.With(rbac.Require(auth.CapManageEquipment)).Post("/", h.Equipment.Create)
				ur.Get("/breakdowns", h.Equipment.ListBreakdowns)
				ur.With(rbac.Require(auth.CapManageEquipment)).Patch("/breakdowns/{id}", h.Equipment.UpdateBreakdown)
				ur.Patch("/usage/{id}/end", h.Equipment.EndUsage)
				ur.Get("/{id}", h.Equipment.Get)
				ur.With(rbac.Require(auth.CapManageEquipment)).Put("/{id}", h.Equipment.Update)
				ur.Post("/{id}/usage", h.Equipment.StartUsage)
				ur.Post("/{id}/breakdown", h.Equipment.ReportBreakdown)
			})

			pr.Route("/attendance", func(ur chi.Router) {
				ur.Get("/", h.Attendance.List)
				ur.Post("/clock-in", h.Attendance.ClockIn)
				ur.Post("/clock-out", h.Attendance.ClockOut)
				ur.With(rbac.Require(auth.CapMarkAttendance)).Post("/mark", h.Attendance.Mark)
				ur.Post("/leave-requests", h.Attendance.CreateLeaveRequest)
				ur.Get("/leave-requests", h.Attendance.ListLeaveRequests)
				ur.With(rbac.Require(auth.CapApproveLeave)).Patch("/leave-requests/{id}", h.Attendance.DecideLeaveRequest)
			})

			pr.Route("/notifications", func(ur chi.Router) {
				ur.Get("/", h.Notification.List)
				ur.Get("/unread-count", h.Notification.UnreadCount)
				ur.Patch("/{id}/read", h.Notification.MarkRead)
				ur.Patch("/read-all", h.Notification.MarkAllRead)
				ur.Delete("/{id}", h.Notification.Delete)
			})

			pr.Route("/documents", func(ur chi.Router) {
				ur.Get("/", h.Document.List)
				ur.Post("/upload", h.Document.Upload)
				ur.Get("/{id}", h.Document.Get)
				ur.Get("/{id}/download", h.Document.Download)
				ur.With(rbac.Require(auth.CapManageDocuments)).Delete("/{id}", h.Document.Delete)
			})

			pr.Route("/reports", func(ur chi.Router) {
				ur.Get("/dashboard", h.Report.Dashboard)
				ur.Get("/tasks/progress", h.Report.TaskProgress)
				ur.Get("/materials/usage", h.Report.MaterialUsage)
				ur.With(rbac.Require(auth.CapViewAttendanceSummary)).Get("/attendance/summary", h.Report.AttendanceSummary)
				ur.With(rbac.Require(auth.CapViewAttendanceSummary)).Get("/attendance/summary/export", h.Report.ExportAttendanceSummary)
				ur.Get("/equipment/status", h.Report.EquipmentStatus)
			})

			pr.With(rbac.Require(auth.CapViewAuditLogs)).Get("/audit-logs", h.Audit.List)
		})
	})
}
