package models

import "time"

// InvoiceStatus is the closed set of billing states an invoice can be in.
type InvoiceStatus string

const (
	InvoiceUnpaid        InvoiceStatus = "Unpaid"
	InvoicePartiallyPaid InvoiceStatus = "Partially Paid"
	InvoicePaid          InvoiceStatus = "Paid"
)

// ComputeInvoiceStatus derives the status from the accumulated amounts.
// Status is a pure function of (paid, total): zero paid is Unpaid, paid at or
// above total is Paid (overpayment clamps here), anything in between is
// Partially Paid. A zero-total invoice is Paid from the start.
func ComputeInvoiceStatus(paid, total float64) InvoiceStatus {
	if paid >= total {
		return InvoicePaid
	}
	if paid > 0 {
		return InvoicePartiallyPaid
	}
	return InvoiceUnpaid
}

// Invoice represents a bill issued to a student for a semester.
type Invoice struct {
	ID            string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID     string        `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	InvoiceNumber string        `json:"invoice_number" gorm:"uniqueIndex;not null" validate:"required"`
	IssueDate     time.Time     `json:"issue_date" gorm:"not null;type:date" validate:"required"`
	DueDate       time.Time     `json:"due_date" gorm:"not null;type:date" validate:"required"`
	TotalAmount   float64       `json:"total_amount" gorm:"not null;type:numeric" validate:"gte=0"`
	PaidAmount    float64       `json:"paid_amount" gorm:"not null;type:numeric;default:0" validate:"gte=0"`
	Status        InvoiceStatus `json:"status" gorm:"not null;type:varchar(20)" validate:"required"`
	Semester      string        `json:"semester,omitempty" gorm:"type:varchar(50)"`
	AcademicYear  string        `json:"academic_year,omitempty" gorm:"type:varchar(20)"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`

	Student  *Student       `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Items    []*InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	Payments []*Payment     `json:"payments,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
}

// Balance returns the amount still owed on this invoice. An overpaid invoice
// yields a negative balance.
func (i *Invoice) Balance() float64 {
	return i.TotalAmount - i.PaidAmount
}

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceID   string  `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Description string  `json:"description" gorm:"not null" validate:"required"`
	Amount      float64 `json:"amount" gorm:"not null;type:numeric" validate:"gt=0"`
	Quantity    int     `json:"quantity" gorm:"not null;default:1" validate:"gt=0"`
	ItemType    string  `json:"item_type,omitempty" gorm:"type:varchar(50)"` // Tuition, Accommodation, Books, etc.
}

// Payment records one payment against an invoice. Payments are immutable
// once recorded.
type Payment struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceID     string    `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PaymentDate   time.Time `json:"payment_date" gorm:"not null;type:date" validate:"required"`
	Amount        float64   `json:"amount" gorm:"not null;type:numeric" validate:"gt=0"`
	PaymentMethod string    `json:"payment_method" gorm:"type:varchar(50)" validate:"required"` // Bank Transfer, Cash, etc.
	TransactionID string    `json:"transaction_id,omitempty"`
	ReceiptNumber string    `json:"receipt_number" gorm:"uniqueIndex;not null" validate:"required"`
	Notes         string    `json:"notes,omitempty"`
	RecordedBy    string    `json:"recorded_by,omitempty" gorm:"index;type:uuid"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`

	Invoice *Invoice `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
}
