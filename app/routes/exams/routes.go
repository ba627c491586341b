package exams

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/auth"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/services"
)

// SetupExamRoutes sets up all final exam, exam slip and result routes
func SetupExamRoutes(app *fiber.App, db *sql.DB) {
	examStore := &database.ExamStore{DB: db}
	invoiceStore := &database.InvoiceStore{DB: db}
	clearance := services.NewClearanceService(invoiceStore)
	slips := services.NewExamSlipService(examStore, clearance)
	bow := services.NewBOWResultService(examStore)

	adminOnly := auth.RequireRoles(models.RoleAdmin)
	studentOnly := auth.RequireRoles(models.RoleStudent)

	api := app.Group("/api/final-exams")
	api.Use(auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error { return GetFinalExamsAPI(c, examStore) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetFinalExamAPI(c, examStore) })
	api.Post("/", adminOnly, func(c *fiber.Ctx) error { return CreateFinalExamAPI(c, examStore) })
	api.Post("/:id/toggle-publish", adminOnly, func(c *fiber.Ctx) error { return TogglePublishAPI(c, examStore) })
	api.Post("/:id/results", auth.RequireRoles(models.RoleAdmin, models.RoleTeacher), func(c *fiber.Ctx) error {
		return AddFinalResultAPI(c, examStore)
	})
	api.Get("/:id/bow-results", adminOnly, func(c *fiber.Ctx) error { return GetBOWResultsAPI(c, bow) })
	api.Put("/:id/bow-results/:studentId", adminOnly, func(c *fiber.Ctx) error {
		return ReplaceBOWResultsAPI(c, db, bow)
	})
	api.Post("/:id/slip", studentOnly, func(c *fiber.Ctx) error { return GenerateExamSlipAPI(c, db, slips) })

	slipAPI := app.Group("/api/exam-slips")
	slipAPI.Use(auth.AuthMiddleware)
	slipAPI.Get("/:id", auth.RequireRoles(models.RoleAdmin, models.RoleStudent), func(c *fiber.Ctx) error {
		return ViewExamSlipAPI(c, db, slips)
	})
	slipAPI.Post("/:id/invalidate", adminOnly, func(c *fiber.Ctx) error { return InvalidateExamSlipAPI(c, slips) })

	my := app.Group("/api/my")
	my.Use(auth.AuthMiddleware)
	my.Get("/exam-slips", studentOnly, func(c *fiber.Ctx) error { return GetMyExamSlipsAPI(c, db, examStore) })
	my.Get("/results", studentOnly, func(c *fiber.Ctx) error { return GetMyResultsAPI(c, db, examStore) })
}
