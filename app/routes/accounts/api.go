package accounts

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/services"
)

// InvoiceItemRequest is one billed line in a create-invoice request.
type InvoiceItemRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity"`
	ItemType    string  `json:"item_type,omitempty"`
}

// CreateInvoiceRequest is the JSON payload for billing a student.
type CreateInvoiceRequest struct {
	StudentID    string               `json:"student_id"`
	IssueDate    string               `json:"issue_date"` // YYYY-MM-DD
	DueDate      string               `json:"due_date"`   // YYYY-MM-DD
	Semester     string               `json:"semester,omitempty"`
	AcademicYear string               `json:"academic_year,omitempty"`
	Items        []InvoiceItemRequest `json:"items"`
}

// RecordPaymentRequest is the JSON payload for recording a payment.
type RecordPaymentRequest struct {
	InvoiceID     string  `json:"invoice_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   string  `json:"payment_date"` // YYYY-MM-DD
	TransactionID string  `json:"transaction_id,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, models.NewValidationError("Dates must be in YYYY-MM-DD format")
	}
	return parsed, nil
}

func GetInvoicesAPI(c *fiber.Ctx, store *database.InvoiceStore) error {
	invoices, err := store.ListInvoices()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoices")
	}
	return c.JSON(fiber.Map{"success": true, "invoices": invoices})
}

func CreateInvoiceAPI(c *fiber.Ctx, ledger *services.LedgerService) error {
	var req CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return err
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return err
	}

	items := make([]*models.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, &models.InvoiceItem{
			Description: item.Description,
			Amount:      item.Amount,
			Quantity:    item.Quantity,
			ItemType:    item.ItemType,
		})
	}

	invoice, err := ledger.CreateInvoice(services.CreateInvoiceInput{
		StudentID:    req.StudentID,
		Items:        items,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	})
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Invoice created successfully",
		"invoice": invoice,
	})
}

func GetInvoiceAPI(c *fiber.Ctx, store *database.InvoiceStore) error {
	invoice, err := store.GetInvoice(c.Params("id"))
	if err != nil {
		return err
	}
	payments, err := store.PaymentsForInvoice(invoice.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}
	invoice.Payments = payments

	return c.JSON(fiber.Map{"success": true, "invoice": invoice})
}

func RecordPaymentAPI(c *fiber.Ctx, ledger *services.LedgerService) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := parseDate(req.PaymentDate)
		if err != nil {
			return err
		}
		paymentDate = parsed
	}

	payment, invoice, err := ledger.RecordPayment(services.RecordPaymentInput{
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   paymentDate,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
		RecordedBy:    c.Locals("user_id").(string),
	})
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Payment recorded successfully",
		"payment": payment,
		"invoice": invoice,
	})
}

func GetPaymentsAPI(c *fiber.Ctx, store *database.InvoiceStore) error {
	payments, err := store.ListPayments()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}
	return c.JSON(fiber.Map{"success": true, "payments": payments})
}

func GetFinancialSummaryAPI(c *fiber.Ctx, store *database.InvoiceStore) error {
	summary, err := store.GetFinancialSummary()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch financial summary")
	}
	return c.JSON(fiber.Map{"success": true, "summary": summary})
}

func GetOutstandingBalancesAPI(c *fiber.Ctx, store *database.InvoiceStore) error {
	balances, err := store.OutstandingBalances()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch balances")
	}
	return c.JSON(fiber.Map{"success": true, "balances": balances})
}

func GetStudentStatementAPI(c *fiber.Ctx, db *sql.DB, store *database.InvoiceStore, ledger *services.LedgerService) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		return err
	}

	invoices, err := store.InvoicesForStudent(student.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoices")
	}
	balance, err := ledger.OutstandingBalance(student.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute balance")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"student":  student,
		"invoices": invoices,
		"balance":  balance,
	})
}

// GetMyFinancesAPI returns the logged-in student's own invoices and balance.
func GetMyFinancesAPI(c *fiber.Ctx, db *sql.DB, store *database.InvoiceStore, ledger *services.LedgerService) error {
	userID := c.Locals("user_id").(string)
	student, err := database.GetStudentByUserID(db, userID)
	if err != nil {
		return err
	}

	invoices, err := store.InvoicesForStudent(student.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoices")
	}
	balance, err := ledger.OutstandingBalance(student.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute balance")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"invoices": invoices,
		"balance":  balance,
	})
}
