package accounts

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/auth"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/services"
)

// SetupAccountsRoutes sets up the billing and payments routes
func SetupAccountsRoutes(app *fiber.App, db *sql.DB) {
	store := &database.InvoiceStore{DB: db}
	ledger := services.NewLedgerService(store)

	api := app.Group("/api/accounts")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RequireRoles(models.RoleAccounts, models.RoleAdmin))

	api.Get("/invoices", func(c *fiber.Ctx) error { return GetInvoicesAPI(c, store) })
	api.Post("/invoices", func(c *fiber.Ctx) error { return CreateInvoiceAPI(c, ledger) })
	api.Get("/invoices/:id", func(c *fiber.Ctx) error { return GetInvoiceAPI(c, store) })
	api.Post("/payments", func(c *fiber.Ctx) error { return RecordPaymentAPI(c, ledger) })
	api.Get("/payments", func(c *fiber.Ctx) error { return GetPaymentsAPI(c, store) })
	api.Get("/summary", func(c *fiber.Ctx) error { return GetFinancialSummaryAPI(c, store) })
	api.Get("/balances", func(c *fiber.Ctx) error { return GetOutstandingBalancesAPI(c, store) })
	api.Get("/students/:id/statement", func(c *fiber.Ctx) error { return GetStudentStatementAPI(c, db, store, ledger) })

	// Student-facing view of their own finances
	my := app.Group("/api/my")
	my.Use(auth.AuthMiddleware)
	my.Get("/finances", auth.RequireRoles(models.RoleStudent), func(c *fiber.Ctx) error {
		return GetMyFinancesAPI(c, db, store, ledger)
	})
}
