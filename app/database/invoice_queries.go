package database

import (
	"database/sql"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// InvoiceStore provides invoice and payment persistence over Postgres.
type InvoiceStore struct {
	DB *sql.DB
}

// NextInvoiceSequence returns the next sequence number used when formatting
// invoice numbers. The unique index on invoice_number catches races.
func (s *InvoiceStore) NextInvoiceSequence() (int, error) {
	var count int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM invoices`).Scan(&count); err != nil {
		return 0, err
	}
	return count + 1, nil
}

// InsertInvoice persists an invoice together with its line items in one
// transaction.
func (s *InvoiceStore) InsertInvoice(invoice *models.Invoice, items []*models.InvoiceItem) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryInvoice := `INSERT INTO invoices (student_id, invoice_number, issue_date, due_date,
					 total_amount, paid_amount, status, semester, academic_year)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
					 RETURNING id, created_at`
	err = tx.QueryRow(queryInvoice,
		invoice.StudentID, invoice.InvoiceNumber, invoice.IssueDate, invoice.DueDate,
		invoice.TotalAmount, invoice.PaidAmount, string(invoice.Status),
		invoice.Semester, invoice.AcademicYear,
	).Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("An invoice with this number already exists")
		}
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("Student record not found")
		}
		return err
	}

	queryItem := `INSERT INTO invoice_items (invoice_id, description, amount, quantity, item_type)
				  VALUES ($1, $2, $3, $4, $5)
				  RETURNING id`
	for _, item := range items {
		item.InvoiceID = invoice.ID
		if err := tx.QueryRow(queryItem, invoice.ID, item.Description, item.Amount, item.Quantity, item.ItemType).Scan(&item.ID); err != nil {
			return err
		}
	}
	invoice.Items = items

	return tx.Commit()
}

func (s *InvoiceStore) GetInvoice(invoiceID string) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `SELECT id, student_id, invoice_number, issue_date, due_date, total_amount,
			  paid_amount, status, semester, academic_year, created_at
			  FROM invoices WHERE id = $1`

	var semester, academicYear sql.NullString
	var status string
	err := s.DB.QueryRow(query, invoiceID).Scan(
		&invoice.ID, &invoice.StudentID, &invoice.InvoiceNumber, &invoice.IssueDate,
		&invoice.DueDate, &invoice.TotalAmount, &invoice.PaidAmount, &status,
		&semester, &academicYear, &invoice.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Invoice not found")
	}
	if err != nil {
		return nil, err
	}
	invoice.Status = models.InvoiceStatus(status)
	invoice.Semester = semester.String
	invoice.AcademicYear = academicYear.String
	return invoice, nil
}

// AddPayment inserts the payment and rolls its amount into the invoice in a
// single transaction, so a reader can never observe one without the other.
// The invoice row is locked for the duration of the update.
func (s *InvoiceStore) AddPayment(payment *models.Payment) (*models.Invoice, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	invoice := &models.Invoice{}
	var semester, academicYear sql.NullString
	queryLock := `SELECT id, student_id, invoice_number, issue_date, due_date, total_amount,
				  paid_amount, semester, academic_year, created_at
				  FROM invoices WHERE id = $1 FOR UPDATE`
	err = tx.QueryRow(queryLock, payment.InvoiceID).Scan(
		&invoice.ID, &invoice.StudentID, &invoice.InvoiceNumber, &invoice.IssueDate,
		&invoice.DueDate, &invoice.TotalAmount, &invoice.PaidAmount,
		&semester, &academicYear, &invoice.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Invoice not found")
	}
	if err != nil {
		return nil, err
	}
	invoice.Semester = semester.String
	invoice.AcademicYear = academicYear.String

	var recordedBy interface{}
	if payment.RecordedBy != "" {
		recordedBy = payment.RecordedBy
	}
	queryPayment := `INSERT INTO payments (invoice_id, payment_date, amount, payment_method,
					 transaction_id, receipt_number, notes, recorded_by)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
					 RETURNING id, created_at`
	err = tx.QueryRow(queryPayment,
		payment.InvoiceID, payment.PaymentDate, payment.Amount, payment.PaymentMethod,
		payment.TransactionID, payment.ReceiptNumber, payment.Notes, recordedBy,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("A payment with this receipt number already exists")
		}
		if isForeignKeyViolation(err) {
			return nil, models.NewNotFoundError("Recording user not found")
		}
		return nil, err
	}

	invoice.PaidAmount += payment.Amount
	invoice.Status = models.ComputeInvoiceStatus(invoice.PaidAmount, invoice.TotalAmount)

	queryUpdate := `UPDATE invoices SET paid_amount = $1, status = $2 WHERE id = $3`
	if _, err := tx.Exec(queryUpdate, invoice.PaidAmount, string(invoice.Status), invoice.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return invoice, nil
}

// InvoicesForStudent returns all invoices for a student, newest first.
func (s *InvoiceStore) InvoicesForStudent(studentID string) ([]*models.Invoice, error) {
	query := `SELECT id, student_id, invoice_number, issue_date, due_date, total_amount,
			  paid_amount, status, semester, academic_year, created_at
			  FROM invoices WHERE student_id = $1 ORDER BY issue_date DESC`
	return s.queryInvoices(query, studentID)
}

// ListInvoices returns all invoices, newest first.
func (s *InvoiceStore) ListInvoices() ([]*models.Invoice, error) {
	query := `SELECT id, student_id, invoice_number, issue_date, due_date, total_amount,
			  paid_amount, status, semester, academic_year, created_at
			  FROM invoices ORDER BY issue_date DESC`
	return s.queryInvoices(query)
}

func (s *InvoiceStore) queryInvoices(query string, args ...interface{}) ([]*models.Invoice, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		var semester, academicYear sql.NullString
		var status string
		err := rows.Scan(
			&invoice.ID, &invoice.StudentID, &invoice.InvoiceNumber, &invoice.IssueDate,
			&invoice.DueDate, &invoice.TotalAmount, &invoice.PaidAmount, &status,
			&semester, &academicYear, &invoice.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		invoice.Status = models.InvoiceStatus(status)
		invoice.Semester = semester.String
		invoice.AcademicYear = academicYear.String
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// PaymentsForInvoice returns all payments recorded against an invoice.
func (s *InvoiceStore) PaymentsForInvoice(invoiceID string) ([]*models.Payment, error) {
	query := `SELECT id, invoice_id, payment_date, amount, payment_method,
			  COALESCE(transaction_id, ''), receipt_number, COALESCE(notes, ''),
			  COALESCE(recorded_by::text, ''), created_at
			  FROM payments WHERE invoice_id = $1 ORDER BY payment_date DESC`
	return s.queryPayments(query, invoiceID)
}

// ListPayments returns all payments, newest first.
func (s *InvoiceStore) ListPayments() ([]*models.Payment, error) {
	query := `SELECT id, invoice_id, payment_date, amount, payment_method,
			  COALESCE(transaction_id, ''), receipt_number, COALESCE(notes, ''),
			  COALESCE(recorded_by::text, ''), created_at
			  FROM payments ORDER BY payment_date DESC`
	return s.queryPayments(query)
}

func (s *InvoiceStore) queryPayments(query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		err := rows.Scan(
			&payment.ID, &payment.InvoiceID, &payment.PaymentDate, &payment.Amount,
			&payment.PaymentMethod, &payment.TransactionID, &payment.ReceiptNumber,
			&payment.Notes, &payment.RecordedBy, &payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// OutstandingBalance sums (total - paid) across all of a student's invoices.
// Overpaid invoices contribute negatively.
func (s *InvoiceStore) OutstandingBalance(studentID string) (float64, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0) - COALESCE(SUM(paid_amount), 0)
			  FROM invoices WHERE student_id = $1`

	var balance float64
	if err := s.DB.QueryRow(query, studentID).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// CountUnclearedInvoices counts the student's invoices whose status is not
// Paid. Financial clearance requires this to be zero.
func (s *InvoiceStore) CountUnclearedInvoices(studentID string) (int, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE student_id = $1 AND status <> $2`

	var count int
	if err := s.DB.QueryRow(query, studentID, string(models.InvoicePaid)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// StudentBalanceRow is one line of the outstanding-balance report.
type StudentBalanceRow struct {
	StudentID       string  `json:"student_id"`
	AdmissionNumber string  `json:"admission_number"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	TotalBilled     float64 `json:"total_billed"`
	TotalPaid       float64 `json:"total_paid"`
	Balance         float64 `json:"balance"`
}

// OutstandingBalances reports every student carrying a non-zero balance.
func (s *InvoiceStore) OutstandingBalances() ([]*StudentBalanceRow, error) {
	query := `SELECT s.id, s.admission_number, s.first_name, s.last_name,
			  COALESCE(SUM(i.total_amount), 0) AS billed,
			  COALESCE(SUM(i.paid_amount), 0) AS paid
			  FROM students s
			  JOIN invoices i ON i.student_id = s.id
			  WHERE s.deleted_at IS NULL
			  GROUP BY s.id, s.admission_number, s.first_name, s.last_name
			  HAVING COALESCE(SUM(i.total_amount), 0) <> COALESCE(SUM(i.paid_amount), 0)
			  ORDER BY s.last_name, s.first_name`

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*StudentBalanceRow
	for rows.Next() {
		row := &StudentBalanceRow{}
		if err := rows.Scan(&row.StudentID, &row.AdmissionNumber, &row.FirstName,
			&row.LastName, &row.TotalBilled, &row.TotalPaid); err != nil {
			return nil, err
		}
		row.Balance = row.TotalBilled - row.TotalPaid
		balances = append(balances, row)
	}
	return balances, rows.Err()
}

// FinancialSummary aggregates the ledger totals for the accounts dashboard.
type FinancialSummary struct {
	InvoiceCount int     `json:"invoice_count"`
	TotalBilled  float64 `json:"total_billed"`
	TotalPaid    float64 `json:"total_paid"`
	TotalBalance float64 `json:"total_balance"`
}

func (s *InvoiceStore) GetFinancialSummary() (*FinancialSummary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(paid_amount), 0)
			  FROM invoices`

	summary := &FinancialSummary{}
	if err := s.DB.QueryRow(query).Scan(&summary.InvoiceCount, &summary.TotalBilled, &summary.TotalPaid); err != nil {
		return nil, err
	}
	summary.TotalBalance = summary.TotalBilled - summary.TotalPaid
	return summary, nil
}
