package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

type fakeLedgerStore struct {
	invoices map[string]*models.Invoice
	payments []*models.Payment
	seq      int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{invoices: make(map[string]*models.Invoice)}
}

func (f *fakeLedgerStore) NextInvoiceSequence() (int, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeLedgerStore) InsertInvoice(invoice *models.Invoice, items []*models.InvoiceItem) error {
	invoice.ID = uuid.NewString()
	invoice.Items = items
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeLedgerStore) GetInvoice(invoiceID string) (*models.Invoice, error) {
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return nil, models.NewNotFoundError("Invoice not found")
	}
	return invoice, nil
}

func (f *fakeLedgerStore) AddPayment(payment *models.Payment) (*models.Invoice, error) {
	invoice, ok := f.invoices[payment.InvoiceID]
	if !ok {
		return nil, models.NewNotFoundError("Invoice not found")
	}
	payment.ID = uuid.NewString()
	f.payments = append(f.payments, payment)
	invoice.PaidAmount += payment.Amount
	invoice.Status = models.ComputeInvoiceStatus(invoice.PaidAmount, invoice.TotalAmount)
	return invoice, nil
}

func (f *fakeLedgerStore) OutstandingBalance(studentID string) (float64, error) {
	balance := 0.0
	for _, invoice := range f.invoices {
		if invoice.StudentID == studentID {
			balance += invoice.TotalAmount - invoice.PaidAmount
		}
	}
	return balance, nil
}

func (f *fakeLedgerStore) CountUnclearedInvoices(studentID string) (int, error) {
	count := 0
	for _, invoice := range f.invoices {
		if invoice.StudentID == studentID && invoice.Status != models.InvoicePaid {
			count++
		}
	}
	return count, nil
}

func TestComputeInvoiceStatus(t *testing.T) {
	assert.Equal(t, models.InvoiceUnpaid, models.ComputeInvoiceStatus(0, 500))
	assert.Equal(t, models.InvoicePartiallyPaid, models.ComputeInvoiceStatus(0.01, 500))
	assert.Equal(t, models.InvoicePartiallyPaid, models.ComputeInvoiceStatus(499.99, 500))
	assert.Equal(t, models.InvoicePaid, models.ComputeInvoiceStatus(500, 500))
	assert.Equal(t, models.InvoicePaid, models.ComputeInvoiceStatus(550, 500))
	// A zero-total invoice is Paid from the start.
	assert.Equal(t, models.InvoicePaid, models.ComputeInvoiceStatus(0, 0))
}

func TestCreateInvoice(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		StudentID: "student-1",
		Items: []*models.InvoiceItem{
			{Description: "Tuition", Amount: 200, Quantity: 2},
			{Description: "Books", Amount: 100, Quantity: 1},
		},
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 1, 0),
		Semester:  "Semester 1",
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, invoice.TotalAmount)
	assert.Equal(t, models.InvoiceUnpaid, invoice.Status)
	assert.Contains(t, invoice.InvoiceNumber, "INV-")
	assert.Len(t, invoice.Items, 2)
}

func TestCreateInvoiceZeroTotalIsPaid(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		StudentID: "student-1",
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, invoice.TotalAmount)
	assert.Equal(t, models.InvoicePaid, invoice.Status)
}

func TestCreateInvoiceRejectsNonPositiveItemAmount(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	_, err := svc.CreateInvoice(CreateInvoiceInput{
		StudentID: "student-1",
		Items:     []*models.InvoiceItem{{Description: "Tuition", Amount: -50, Quantity: 1}},
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrValidation))
	assert.Empty(t, store.invoices)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		StudentID: "student-1",
		Items:     []*models.InvoiceItem{{Description: "Tuition", Amount: 500, Quantity: 1}},
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	_, _, err = svc.RecordPayment(RecordPaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        0,
		PaymentMethod: "Cash",
		PaymentDate:   time.Now(),
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrValidation))
	assert.Empty(t, store.payments)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	_, _, err := svc.RecordPayment(RecordPaymentInput{
		InvoiceID:     "missing",
		Amount:        100,
		PaymentMethod: "Cash",
		PaymentDate:   time.Now(),
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrNotFound))
}

// Walks an invoice through partial payment, full payment and overpayment.
// Overpayment is accepted: paid_amount keeps accumulating, status stays Paid
// and the balance goes negative.
func TestPaymentLifecycle(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		StudentID: "student-1",
		Items:     []*models.InvoiceItem{{Description: "Tuition", Amount: 500, Quantity: 1}},
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	payment, updated, err := svc.RecordPayment(RecordPaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        200,
		PaymentMethod: "Bank Transfer",
		PaymentDate:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePartiallyPaid, updated.Status)
	assert.Equal(t, 200.0, updated.PaidAmount)
	assert.Contains(t, payment.ReceiptNumber, "RCPT-")

	balance, err := svc.OutstandingBalance("student-1")
	require.NoError(t, err)
	assert.Equal(t, 300.0, balance)

	_, updated, err = svc.RecordPayment(RecordPaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        300,
		PaymentMethod: "Cash",
		PaymentDate:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, updated.Status)

	balance, err = svc.OutstandingBalance("student-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	_, updated, err = svc.RecordPayment(RecordPaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        50,
		PaymentMethod: "Cash",
		PaymentDate:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, updated.Status)
	assert.Equal(t, 550.0, updated.PaidAmount)

	balance, err = svc.OutstandingBalance("student-1")
	require.NoError(t, err)
	assert.Equal(t, -50.0, balance)
}

func TestReceiptNumbersAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		number := newReceiptNumber()
		assert.False(t, seen[number], "duplicate receipt number %s", number)
		seen[number] = true
	}
}

// A backdated payment still gets a receipt stamped with the year it was
// recorded in.
func TestReceiptNumberUsesRecordingYear(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		StudentID: "student-1",
		Items:     []*models.InvoiceItem{{Description: "Tuition", Amount: 500, Quantity: 1}},
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	payment, _, err := svc.RecordPayment(RecordPaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        100,
		PaymentMethod: "Cash",
		PaymentDate:   time.Now().AddDate(-2, 0, 0),
	})
	require.NoError(t, err)
	assert.Contains(t, payment.ReceiptNumber, fmt.Sprintf("RCPT-%d-", time.Now().Year()))
}
