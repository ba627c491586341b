package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

type fakeSlipStore struct {
	slips map[string]*models.ExamSlip // keyed by slip ID
}

func newFakeSlipStore() *fakeSlipStore {
	return &fakeSlipStore{slips: make(map[string]*models.ExamSlip)}
}

func (f *fakeSlipStore) GetSlip(studentID, examID string) (*models.ExamSlip, error) {
	for _, slip := range f.slips {
		if slip.StudentID == studentID && slip.FinalExamID == examID {
			return slip, nil
		}
	}
	return nil, models.NewNotFoundError("Exam slip not found")
}

func (f *fakeSlipStore) GetSlipByID(slipID string) (*models.ExamSlip, error) {
	slip, ok := f.slips[slipID]
	if !ok {
		return nil, models.NewNotFoundError("Exam slip not found")
	}
	return slip, nil
}

func (f *fakeSlipStore) CreateSlip(slip *models.ExamSlip) error {
	slip.ID = uuid.NewString()
	f.slips[slip.ID] = slip
	return nil
}

func (f *fakeSlipStore) SetSlipValidity(slipID string, valid bool) error {
	slip, ok := f.slips[slipID]
	if !ok {
		return models.NewNotFoundError("Exam slip not found")
	}
	slip.IsValid = valid
	return nil
}

// stubClearance returns fixed verdicts and counts how often they are asked
// for.
type stubClearance struct {
	financial bool
	calls     int
}

func (s *stubClearance) FinancialClearance(studentID string) (bool, error) {
	s.calls++
	return s.financial, nil
}

func (s *stubClearance) AcademicClearance(studentID, examID string) (bool, error) {
	return true, nil
}

func TestIssueCreatesSlipWithClearanceSnapshot(t *testing.T) {
	store := newFakeSlipStore()
	clearance := &stubClearance{financial: false}
	svc := NewExamSlipService(store, clearance)

	result, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	assert.Equal(t, SlipIssued, result.Outcome)
	assert.True(t, result.Slip.IsValid)
	assert.False(t, result.Slip.FinancialClearance)
	assert.True(t, result.Slip.AcademicClearance)
	assert.Len(t, store.slips, 1)
}

func TestIssueIsIdempotent(t *testing.T) {
	store := newFakeSlipStore()
	svc := NewExamSlipService(store, &stubClearance{financial: true})

	first, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	assert.Equal(t, SlipIssued, first.Outcome)

	second, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	assert.Equal(t, SlipAlreadyValid, second.Outcome)
	assert.Equal(t, first.Slip.ID, second.Slip.ID)
	assert.Len(t, store.slips, 1)
}

// Reactivation must keep the clearance snapshots taken at first issuance,
// even when the student's financial position has changed since.
func TestReactivationPreservesClearanceSnapshot(t *testing.T) {
	store := newFakeSlipStore()
	clearance := &stubClearance{financial: false}
	svc := NewExamSlipService(store, clearance)

	issued, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	assert.False(t, issued.Slip.FinancialClearance)

	require.NoError(t, svc.Invalidate(issued.Slip.ID))

	// Student has since paid in full.
	clearance.financial = true

	result, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	assert.Equal(t, SlipReactivated, result.Outcome)
	assert.True(t, result.Slip.IsValid)
	assert.False(t, result.Slip.FinancialClearance, "snapshot must not be recomputed")
	assert.Equal(t, 1, clearance.calls, "clearance computed only at first issuance")
	assert.Len(t, store.slips, 1)
}

// contendedSlipStore simulates another request issuing the same slip
// between the existence check and the insert.
type contendedSlipStore struct {
	*fakeSlipStore
}

func (c *contendedSlipStore) GetSlip(studentID, examID string) (*models.ExamSlip, error) {
	if len(c.fakeSlipStore.slips) == 0 {
		return nil, models.NewNotFoundError("Exam slip not found")
	}
	return c.fakeSlipStore.GetSlip(studentID, examID)
}

func (c *contendedSlipStore) CreateSlip(slip *models.ExamSlip) error {
	winner := &models.ExamSlip{
		StudentID:          slip.StudentID,
		FinalExamID:        slip.FinalExamID,
		IsValid:            true,
		FinancialClearance: true,
		AcademicClearance:  true,
	}
	if err := c.fakeSlipStore.CreateSlip(winner); err != nil {
		return err
	}
	return models.NewConflictError("An exam slip already exists for this exam")
}

// Two first-time Issue calls may race past the existence check; the loser's
// insert hits the unique constraint and must come back as the winner's
// already-valid slip, not an error.
func TestIssueConcurrentInsertReturnsExistingSlip(t *testing.T) {
	store := &contendedSlipStore{fakeSlipStore: newFakeSlipStore()}
	svc := NewExamSlipService(store, &stubClearance{financial: true})

	result, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	assert.Equal(t, SlipAlreadyValid, result.Outcome)
	assert.True(t, result.Slip.IsValid)
	assert.Len(t, store.fakeSlipStore.slips, 1)
}

func TestInvalidateUnknownSlip(t *testing.T) {
	svc := NewExamSlipService(newFakeSlipStore(), &stubClearance{})

	err := svc.Invalidate("missing")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrNotFound))
}

func TestViewPermissions(t *testing.T) {
	store := newFakeSlipStore()
	svc := NewExamSlipService(store, &stubClearance{financial: true})

	issued, err := svc.Issue("student-1", "exam-1")
	require.NoError(t, err)
	slipID := issued.Slip.ID

	// Owning student may view.
	slip, err := svc.View(slipID, "student-1", false)
	require.NoError(t, err)
	assert.Equal(t, slipID, slip.ID)

	// Admin may view regardless of ownership.
	slip, err = svc.View(slipID, "", true)
	require.NoError(t, err)
	assert.Equal(t, slipID, slip.ID)

	// Anyone else is refused.
	_, err = svc.View(slipID, "student-2", false)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrForbidden))
}
