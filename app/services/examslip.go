package services

import (
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// SlipStore is the persistence surface for exam slips. Implemented by
// database.ExamStore.
type SlipStore interface {
	GetSlip(studentID, examID string) (*models.ExamSlip, error)
	GetSlipByID(slipID string) (*models.ExamSlip, error)
	CreateSlip(slip *models.ExamSlip) error
	SetSlipValidity(slipID string, valid bool) error
}

// ClearanceEvaluator supplies the financial and academic gates snapshotted
// onto a slip at first issuance.
type ClearanceEvaluator interface {
	FinancialClearance(studentID string) (bool, error)
	AcademicClearance(studentID, examID string) (bool, error)
}

// SlipOutcome reports what Issue did.
type SlipOutcome string

const (
	SlipIssued       SlipOutcome = "issued"
	SlipReactivated  SlipOutcome = "reactivated"
	SlipAlreadyValid SlipOutcome = "already_valid"
)

// IssueResult is the structured outcome of an Issue call. Message is safe
// to display as-is.
type IssueResult struct {
	Outcome SlipOutcome      `json:"outcome"`
	Message string           `json:"message"`
	Slip    *models.ExamSlip `json:"slip"`
}

// ExamSlipService runs the slip state machine: no slip, valid, invalidated,
// and back to valid again on reactivation.
type ExamSlipService struct {
	store     SlipStore
	clearance ClearanceEvaluator
}

func NewExamSlipService(store SlipStore, clearance ClearanceEvaluator) *ExamSlipService {
	return &ExamSlipService{store: store, clearance: clearance}
}

// Issue is idempotent per (student, exam). A valid slip is left alone, an
// invalidated slip is flipped back with its original clearance snapshots
// untouched, and only a first-time issue computes clearance fresh.
func (s *ExamSlipService) Issue(studentID, examID string) (*IssueResult, error) {
	existing, err := s.store.GetSlip(studentID, examID)
	if err != nil && !models.IsKind(err, models.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.IsValid {
			return &IssueResult{
				Outcome: SlipAlreadyValid,
				Message: "You already have a valid exam slip for this exam",
				Slip:    existing,
			}, nil
		}
		if err := s.store.SetSlipValidity(existing.ID, true); err != nil {
			return nil, err
		}
		existing.IsValid = true
		return &IssueResult{
			Outcome: SlipReactivated,
			Message: "Your exam slip has been regenerated",
			Slip:    existing,
		}, nil
	}

	financial, err := s.clearance.FinancialClearance(studentID)
	if err != nil {
		return nil, err
	}
	academic, err := s.clearance.AcademicClearance(studentID, examID)
	if err != nil {
		return nil, err
	}

	slip := &models.ExamSlip{
		StudentID:          studentID,
		FinalExamID:        examID,
		IsValid:            true,
		FinancialClearance: financial,
		AcademicClearance:  academic,
	}
	if err := s.store.CreateSlip(slip); err != nil {
		// A concurrent Issue call won the insert; return its slip.
		if models.IsKind(err, models.ErrConflict) {
			winner, fetchErr := s.store.GetSlip(studentID, examID)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return &IssueResult{
				Outcome: SlipAlreadyValid,
				Message: "You already have a valid exam slip for this exam",
				Slip:    winner,
			}, nil
		}
		return nil, err
	}
	return &IssueResult{
		Outcome: SlipIssued,
		Message: "Exam slip generated successfully",
		Slip:    slip,
	}, nil
}

// Invalidate flips a slip to invalid. The row stays; a later Issue call
// reactivates it.
func (s *ExamSlipService) Invalidate(slipID string) error {
	return s.store.SetSlipValidity(slipID, false)
}

// View returns the slip if the requester is the owning student or an
// administrator; anyone else is refused.
func (s *ExamSlipService) View(slipID, requesterStudentID string, isAdmin bool) (*models.ExamSlip, error) {
	slip, err := s.store.GetSlipByID(slipID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && slip.StudentID != requesterStudentID {
		return nil, models.NewForbiddenError("You do not have permission to view this exam slip")
	}
	return slip, nil
}
