package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// LedgerStore is the persistence surface the ledger needs. Implemented by
// database.InvoiceStore.
type LedgerStore interface {
	NextInvoiceSequence() (int, error)
	InsertInvoice(invoice *models.Invoice, items []*models.InvoiceItem) error
	GetInvoice(invoiceID string) (*models.Invoice, error)
	AddPayment(payment *models.Payment) (*models.Invoice, error)
	OutstandingBalance(studentID string) (float64, error)
}

// LedgerService owns invoice creation, payment recording and balance
// arithmetic. Invoice status is always derived from the accumulated amounts,
// never set directly.
type LedgerService struct {
	store LedgerStore
}

func NewLedgerService(store LedgerStore) *LedgerService {
	return &LedgerService{store: store}
}

// CreateInvoiceInput carries the billing details for a new invoice.
type CreateInvoiceInput struct {
	StudentID    string
	Items        []*models.InvoiceItem
	IssueDate    time.Time
	DueDate      time.Time
	Semester     string
	AcademicYear string
}

// CreateInvoice bills a student. The total is the sum of amount x quantity
// over the line items. A zero-total invoice is created already Paid.
func (s *LedgerService) CreateInvoice(input CreateInvoiceInput) (*models.Invoice, error) {
	if input.StudentID == "" {
		return nil, models.NewValidationError("Student is required")
	}
	if input.IssueDate.IsZero() || input.DueDate.IsZero() {
		return nil, models.NewValidationError("Issue date and due date are required")
	}

	total := 0.0
	for _, item := range input.Items {
		if item.Description == "" {
			return nil, models.NewValidationError("Each invoice item needs a description")
		}
		if item.Amount <= 0 {
			return nil, models.NewValidationError("Invoice item amounts must be greater than zero")
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		total += item.Amount * float64(item.Quantity)
	}

	seq, err := s.store.NextInvoiceSequence()
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		StudentID:     input.StudentID,
		InvoiceNumber: fmt.Sprintf("INV-%d-%04d", time.Now().Year(), seq),
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
		TotalAmount:   total,
		PaidAmount:    0,
		Status:        models.ComputeInvoiceStatus(0, total),
		Semester:      input.Semester,
		AcademicYear:  input.AcademicYear,
	}

	if err := s.store.InsertInvoice(invoice, input.Items); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RecordPaymentInput carries the details of one payment against an invoice.
type RecordPaymentInput struct {
	InvoiceID     string
	Amount        float64
	PaymentMethod string
	PaymentDate   time.Time
	TransactionID string
	Notes         string
	RecordedBy    string
}

// RecordPayment appends a payment to an invoice and recomputes its status.
// The payment insert and invoice update happen in one transaction. Amounts
// above the invoice total are accepted; paid_amount keeps the full figure and
// status clamps to Paid.
func (s *LedgerService) RecordPayment(input RecordPaymentInput) (*models.Payment, *models.Invoice, error) {
	if input.InvoiceID == "" {
		return nil, nil, models.NewValidationError("Invoice is required")
	}
	if input.Amount <= 0 {
		return nil, nil, models.NewValidationError("Payment amount must be greater than zero")
	}
	if input.PaymentMethod == "" {
		return nil, nil, models.NewValidationError("Payment method is required")
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now()
	}

	payment := &models.Payment{
		InvoiceID:     input.InvoiceID,
		PaymentDate:   input.PaymentDate,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
		ReceiptNumber: newReceiptNumber(),
		Notes:         input.Notes,
		RecordedBy:    input.RecordedBy,
	}

	invoice, err := s.store.AddPayment(payment)
	if err != nil {
		return nil, nil, err
	}
	return payment, invoice, nil
}

// OutstandingBalance sums (total - paid) across all of the student's
// invoices. Overpaid invoices reduce the aggregate.
func (s *LedgerService) OutstandingBalance(studentID string) (float64, error) {
	return s.store.OutstandingBalance(studentID)
}

// newReceiptNumber builds a receipt identifier. The year is the year the
// payment is recorded, not the (possibly backdated) payment date. Uniqueness
// comes from the random token; the unique index on receipt_number is the
// backstop.
func newReceiptNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	return fmt.Sprintf("RCPT-%d-%s", time.Now().Year(), token)
}
