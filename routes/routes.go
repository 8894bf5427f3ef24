package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/brightwood/attendance-api/config"
	"github.com/brightwood/attendance-api/database"
	"github.com/brightwood/attendance-api/handlers"
	"github.com/brightwood/attendance-api/middlewares"
	"github.com/brightwood/attendance-api/store"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Stores & Handlers (shared singletons) =====
	attStore := store.NewAttendanceStore(database.DB)
	rosterStore := store.NewRosterStore(database.DB)

	auth := handlers.NewAuthHandler(database.DB, cfg.JWTSecret)
	att := handlers.NewAttendanceHandler(attStore)
	ros := handlers.NewRosterHandler(rosterStore, attStore)
	drafts := handlers.NewDraftHandler(attStore, rosterStore)
	browse := handlers.NewBrowseHandler(database.DB)

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/staff/login", auth.StaffLogin)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Teacher routes =====
	teacher := e.Group("/teacher", authMW, middlewares.RequireRole("teacher", "admin"))

	teacher.GET("/roster", ros.ForDate)

	teacher.GET("/attendance", browse.List)
	teacher.GET("/attendance/students/:studentId", att.ListByStudent)
	teacher.GET("/attendance/students/:studentId/summary", att.Summary)
	teacher.POST("/attendance", att.Create)
	teacher.PATCH("/attendance/:id", att.Update)
	teacher.DELETE("/attendance/:id", att.Delete)
	teacher.POST("/attendance/bulk", att.BulkCreate)

	// Bulk-marking drafts (in-memory, per process)
	teacher.POST("/attendance/drafts", drafts.Create)
	teacher.GET("/attendance/drafts/:id", drafts.Get)
	teacher.PATCH("/attendance/drafts/:id/students/:studentId", drafts.UpdateEntry)
	teacher.POST("/attendance/drafts/:id/mark-all-present", drafts.MarkAllPresent)
	teacher.POST("/attendance/drafts/:id/save", drafts.Save)
	teacher.DELETE("/attendance/drafts/:id", drafts.Discard)

	// ===== Admin routes =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))
	admin.GET("/attendance", browse.List)
}
