package students

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/auth"
)

// SetupStudentsRoutes sets up the students routes
func SetupStudentsRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)

	staffOnly := auth.RequireRoles(models.RoleAdmin, models.RoleICT, models.RoleAccounts, models.RoleTeacher)
	adminOnly := auth.RequireRoles(models.RoleAdmin, models.RoleICT)

	api.Get("/", staffOnly, func(c *fiber.Ctx) error { return GetStudentsAPI(c, db) })
	api.Get("/:id", staffOnly, func(c *fiber.Ctx) error { return GetStudentAPI(c, db) })
	api.Post("/", adminOnly, func(c *fiber.Ctx) error { return CreateStudentAPI(c, db) })
	api.Put("/:id", adminOnly, func(c *fiber.Ctx) error { return UpdateStudentAPI(c, db) })
	api.Delete("/:id", adminOnly, func(c *fiber.Ctx) error { return DeactivateStudentAPI(c, db) })
}
