package services

// ClearanceStore is the ledger surface clearance checks read from.
// Implemented by database.InvoiceStore.
type ClearanceStore interface {
	CountUnclearedInvoices(studentID string) (int, error)
}

// ClearanceService derives the boolean gates consulted when an exam slip is
// issued.
type ClearanceService struct {
	store ClearanceStore
}

func NewClearanceService(store ClearanceStore) *ClearanceService {
	return &ClearanceService{store: store}
}

// FinancialClearance is true only when the student has no invoice in a
// status other than Paid.
func (s *ClearanceService) FinancialClearance(studentID string) (bool, error) {
	count, err := s.store.CountUnclearedInvoices(studentID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// AcademicClearance is granted unconditionally. No academic gating policy
// is defined yet.
func (s *ClearanceService) AcademicClearance(studentID, examID string) (bool, error) {
	return true, nil
}
