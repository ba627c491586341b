package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

type fakeBOWStore struct {
	// keyed by student|exam
	results map[string][]*models.BOWResult
}

func newFakeBOWStore() *fakeBOWStore {
	return &fakeBOWStore{results: make(map[string][]*models.BOWResult)}
}

func bowKey(studentID, examID string) string {
	return studentID + "|" + examID
}

func (f *fakeBOWStore) ReplaceBOWResults(studentID, examID string, results []*models.BOWResult) error {
	for _, result := range results {
		result.ID = uuid.NewString()
	}
	f.results[bowKey(studentID, examID)] = results
	return nil
}

func (f *fakeBOWStore) BOWResultsForExam(examID string) ([]*models.BOWResult, error) {
	var all []*models.BOWResult
	for _, batch := range f.results {
		for _, result := range batch {
			if result.ExamID == examID {
				all = append(all, result)
			}
		}
	}
	return all, nil
}

func subjectRows(n int) []SubjectRow {
	rows := make([]SubjectRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, SubjectRow{
			SubjectCode: fmt.Sprintf("SUB%02d", i+1),
			SubjectName: fmt.Sprintf("Subject %d", i+1),
			CreditHours: 3,
			Marks:       75,
		})
	}
	return rows
}

func TestReplaceStudentResults(t *testing.T) {
	store := newFakeBOWStore()
	svc := NewBOWResultService(store)

	results, err := svc.ReplaceStudentResults("student-1", "exam-1", subjectRows(5))
	require.NoError(t, err)
	assert.Len(t, results, 5)
	for _, result := range results {
		assert.Equal(t, "C", result.Grade)
	}

	// A new batch replaces the old one wholesale.
	results, err = svc.ReplaceStudentResults("student-1", "exam-1", subjectRows(4))
	require.NoError(t, err)
	assert.Len(t, results, 4)

	stored, err := svc.ResultsForExam("exam-1")
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

// A batch below the minimum is rejected before anything is deleted; prior
// rows survive untouched.
func TestReplaceRejectsTooFewSubjects(t *testing.T) {
	store := newFakeBOWStore()
	svc := NewBOWResultService(store)

	_, err := svc.ReplaceStudentResults("student-1", "exam-1", subjectRows(5))
	require.NoError(t, err)

	_, err = svc.ReplaceStudentResults("student-1", "exam-1", subjectRows(3))
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrValidation))
	assert.Contains(t, err.Error(), "at least 4 courses")

	stored, err := svc.ResultsForExam("exam-1")
	require.NoError(t, err)
	assert.Len(t, stored, 5, "prior rows must remain on rejection")
}

func TestReplaceRejectsTooManySubjects(t *testing.T) {
	svc := NewBOWResultService(newFakeBOWStore())

	_, err := svc.ReplaceStudentResults("student-1", "exam-1", subjectRows(10))
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrValidation))
	assert.Contains(t, err.Error(), "more than 9 courses")
}

func TestReplaceValidatesRows(t *testing.T) {
	svc := NewBOWResultService(newFakeBOWStore())

	rows := subjectRows(4)
	rows[2].SubjectCode = ""
	_, err := svc.ReplaceStudentResults("student-1", "exam-1", rows)
	assert.True(t, models.IsKind(err, models.ErrValidation))

	rows = subjectRows(4)
	rows[0].CreditHours = 0
	_, err = svc.ReplaceStudentResults("student-1", "exam-1", rows)
	assert.True(t, models.IsKind(err, models.ErrValidation))

	rows = subjectRows(4)
	rows[1].Marks = 101
	_, err = svc.ReplaceStudentResults("student-1", "exam-1", rows)
	assert.True(t, models.IsKind(err, models.ErrValidation))
}

func TestGradeFromMarks(t *testing.T) {
	cases := []struct {
		marks float64
		grade string
	}{
		{100, "A+"}, {97, "A+"}, {96.9, "A"}, {93, "A"}, {90, "A-"},
		{87, "B+"}, {83, "B"}, {80, "B-"}, {77, "C+"}, {73, "C"},
		{70, "C-"}, {67, "D+"}, {60, "D"}, {59.9, "F"}, {0, "F"},
	}
	for _, c := range cases {
		assert.Equal(t, c.grade, GradeFromMarks(c.marks), "marks %.1f", c.marks)
	}
}
