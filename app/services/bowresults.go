package services

import (
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// A BOW result set must cover between 4 and 9 courses.
const (
	MinBOWSubjects = 4
	MaxBOWSubjects = 9
)

// BOWStore is the persistence surface for BOW Corporation results.
// Implemented by database.ExamStore.
type BOWStore interface {
	ReplaceBOWResults(studentID, examID string, results []*models.BOWResult) error
	BOWResultsForExam(examID string) ([]*models.BOWResult, error)
}

// SubjectRow is one subject entry supplied by the results form or the bulk
// import collaborator.
type SubjectRow struct {
	SubjectCode string  `json:"subject_code"`
	SubjectName string  `json:"subject_name"`
	CreditHours int     `json:"credit_hours"`
	Marks       float64 `json:"marks"`
}

// BOWResultService validates and atomically replaces a student's BOW result
// set for a final exam.
type BOWResultService struct {
	store BOWStore
}

func NewBOWResultService(store BOWStore) *BOWResultService {
	return &BOWResultService{store: store}
}

// ReplaceStudentResults swaps out every BOW row the student has under the
// exam for the given batch. The subject-count rule is checked before
// anything is touched, and the delete and inserts share a transaction, so a
// rejected or failed batch leaves the prior rows intact.
func (s *BOWResultService) ReplaceStudentResults(studentID, examID string, rows []SubjectRow) ([]*models.BOWResult, error) {
	if studentID == "" || examID == "" {
		return nil, models.NewValidationError("Student and exam are required")
	}
	if len(rows) < MinBOWSubjects {
		return nil, models.NewValidationError("Students must have at least 4 courses")
	}
	if len(rows) > MaxBOWSubjects {
		return nil, models.NewValidationError("Students cannot have more than 9 courses")
	}

	results := make([]*models.BOWResult, 0, len(rows))
	for _, row := range rows {
		if row.SubjectCode == "" || row.SubjectName == "" {
			return nil, models.NewValidationError("Each course needs a subject code and name")
		}
		if row.CreditHours <= 0 {
			return nil, models.NewValidationError("Credit hours must be greater than zero")
		}
		if row.Marks < 0 || row.Marks > 100 {
			return nil, models.NewValidationError("Marks must be between 0 and 100")
		}
		results = append(results, &models.BOWResult{
			StudentID:   studentID,
			ExamID:      examID,
			SubjectCode: row.SubjectCode,
			SubjectName: row.SubjectName,
			CreditHours: row.CreditHours,
			Marks:       row.Marks,
			Grade:       GradeFromMarks(row.Marks),
		})
	}

	if err := s.store.ReplaceBOWResults(studentID, examID, results); err != nil {
		return nil, err
	}
	return results, nil
}

// ResultsForExam lists every BOW row recorded under an exam.
func (s *BOWResultService) ResultsForExam(examID string) ([]*models.BOWResult, error) {
	return s.store.BOWResultsForExam(examID)
}

// GradeFromMarks maps a percentage mark to its letter grade.
func GradeFromMarks(marks float64) string {
	switch {
	case marks >= 97:
		return "A+"
	case marks >= 93:
		return "A"
	case marks >= 90:
		return "A-"
	case marks >= 87:
		return "B+"
	case marks >= 83:
		return "B"
	case marks >= 80:
		return "B-"
	case marks >= 77:
		return "C+"
	case marks >= 73:
		return "C"
	case marks >= 70:
		return "C-"
	case marks >= 67:
		return "D+"
	case marks >= 60:
		return "D"
	default:
		return "F"
	}
}
