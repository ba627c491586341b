package database

import (
	"database/sql"
	"time"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// ExamStore provides final exam, exam slip and result persistence over
// Postgres.
type ExamStore struct {
	DB *sql.DB
}

func (s *ExamStore) CreateFinalExam(exam *models.FinalExam) error {
	query := `INSERT INTO final_exams (name, semester, academic_year, publish_date, is_published)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`

	return s.DB.QueryRow(query,
		exam.Name, exam.Semester, exam.AcademicYear, exam.PublishDate, exam.IsPublished,
	).Scan(&exam.ID, &exam.CreatedAt)
}

func (s *ExamStore) GetFinalExam(examID string) (*models.FinalExam, error) {
	exam := &models.FinalExam{}
	query := `SELECT id, name, semester, academic_year, publish_date, is_published, created_at
			  FROM final_exams WHERE id = $1`

	var semester, academicYear sql.NullString
	err := s.DB.QueryRow(query, examID).Scan(
		&exam.ID, &exam.Name, &semester, &academicYear,
		&exam.PublishDate, &exam.IsPublished, &exam.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Final exam not found")
	}
	if err != nil {
		return nil, err
	}
	exam.Semester = semester.String
	exam.AcademicYear = academicYear.String
	return exam, nil
}

func (s *ExamStore) ListFinalExams() ([]*models.FinalExam, error) {
	query := `SELECT id, name, semester, academic_year, publish_date, is_published, created_at
			  FROM final_exams ORDER BY publish_date`

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []*models.FinalExam
	for rows.Next() {
		exam := &models.FinalExam{}
		var semester, academicYear sql.NullString
		err := rows.Scan(
			&exam.ID, &exam.Name, &semester, &academicYear,
			&exam.PublishDate, &exam.IsPublished, &exam.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		exam.Semester = semester.String
		exam.AcademicYear = academicYear.String
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

// SetPublished flips the publish flag regardless of publish_date. Used by
// the manual admin toggle.
func (s *ExamStore) SetPublished(examID string, published bool) error {
	query := `UPDATE final_exams SET is_published = $1 WHERE id = $2`

	result, err := s.DB.Exec(query, published, examID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("Final exam not found")
	}
	return nil
}

// DuePublications returns exams that are still unpublished but whose publish
// date has passed.
func (s *ExamStore) DuePublications(now time.Time) ([]*models.FinalExam, error) {
	query := `SELECT id, name, semester, academic_year, publish_date, is_published, created_at
			  FROM final_exams WHERE is_published = false AND publish_date <= $1`

	rows, err := s.DB.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []*models.FinalExam
	for rows.Next() {
		exam := &models.FinalExam{}
		var semester, academicYear sql.NullString
		err := rows.Scan(
			&exam.ID, &exam.Name, &semester, &academicYear,
			&exam.PublishDate, &exam.IsPublished, &exam.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		exam.Semester = semester.String
		exam.AcademicYear = academicYear.String
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

// MarkPublished sets is_published on a single exam during a scheduler tick.
func (s *ExamStore) MarkPublished(examID string) error {
	_, err := s.DB.Exec(`UPDATE final_exams SET is_published = true WHERE id = $1`, examID)
	return err
}

// GetSlip returns the slip row for a (student, exam) pair, whether valid or
// invalidated, or a NotFound error when none has ever been issued.
func (s *ExamStore) GetSlip(studentID, examID string) (*models.ExamSlip, error) {
	slip := &models.ExamSlip{}
	query := `SELECT id, student_id, final_exam_id, generated_date, is_valid,
			  financial_clearance, academic_clearance
			  FROM exam_slips WHERE student_id = $1 AND final_exam_id = $2`

	err := s.DB.QueryRow(query, studentID, examID).Scan(
		&slip.ID, &slip.StudentID, &slip.FinalExamID, &slip.GeneratedDate,
		&slip.IsValid, &slip.FinancialClearance, &slip.AcademicClearance,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Exam slip not found")
	}
	if err != nil {
		return nil, err
	}
	return slip, nil
}

func (s *ExamStore) GetSlipByID(slipID string) (*models.ExamSlip, error) {
	slip := &models.ExamSlip{}
	query := `SELECT id, student_id, final_exam_id, generated_date, is_valid,
			  financial_clearance, academic_clearance
			  FROM exam_slips WHERE id = $1`

	err := s.DB.QueryRow(query, slipID).Scan(
		&slip.ID, &slip.StudentID, &slip.FinalExamID, &slip.GeneratedDate,
		&slip.IsValid, &slip.FinancialClearance, &slip.AcademicClearance,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Exam slip not found")
	}
	if err != nil {
		return nil, err
	}
	return slip, nil
}

func (s *ExamStore) CreateSlip(slip *models.ExamSlip) error {
	query := `INSERT INTO exam_slips (student_id, final_exam_id, is_valid,
			  financial_clearance, academic_clearance)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, generated_date`

	err := s.DB.QueryRow(query,
		slip.StudentID, slip.FinalExamID, slip.IsValid,
		slip.FinancialClearance, slip.AcademicClearance,
	).Scan(&slip.ID, &slip.GeneratedDate)
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("An exam slip already exists for this exam")
		}
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("Student or final exam not found")
		}
		return err
	}
	return nil
}

// SetSlipValidity flips is_valid only; the clearance snapshots taken at
// first issuance are never touched.
func (s *ExamStore) SetSlipValidity(slipID string, valid bool) error {
	result, err := s.DB.Exec(`UPDATE exam_slips SET is_valid = $1 WHERE id = $2`, valid, slipID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("Exam slip not found")
	}
	return nil
}

// SlipsForStudent returns the student's valid slips.
func (s *ExamStore) SlipsForStudent(studentID string) ([]*models.ExamSlip, error) {
	query := `SELECT id, student_id, final_exam_id, generated_date, is_valid,
			  financial_clearance, academic_clearance
			  FROM exam_slips WHERE student_id = $1 AND is_valid = true
			  ORDER BY generated_date DESC`

	rows, err := s.DB.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []*models.ExamSlip
	for rows.Next() {
		slip := &models.ExamSlip{}
		err := rows.Scan(
			&slip.ID, &slip.StudentID, &slip.FinalExamID, &slip.GeneratedDate,
			&slip.IsValid, &slip.FinancialClearance, &slip.AcademicClearance,
		)
		if err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, rows.Err()
}

// ResultsForStudent returns a student's final results, restricted to
// published exams when publishedOnly is set.
func (s *ExamStore) ResultsForStudent(studentID string, publishedOnly bool) ([]*models.FinalResult, error) {
	query := `SELECT r.id, r.final_exam_id, r.student_id, r.subject, r.marks,
			  COALESCE(r.grade, ''), COALESCE(r.remarks, ''), COALESCE(r.teacher_id::text, ''), r.created_at
			  FROM final_results r
			  JOIN final_exams e ON e.id = r.final_exam_id
			  WHERE r.student_id = $1`
	if publishedOnly {
		query += ` AND e.is_published = true`
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := s.DB.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.FinalResult
	for rows.Next() {
		result := &models.FinalResult{}
		err := rows.Scan(
			&result.ID, &result.FinalExamID, &result.StudentID, &result.Subject,
			&result.Marks, &result.Grade, &result.Remarks, &result.TeacherID, &result.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// AddFinalResult records one subject mark under a final exam.
func (s *ExamStore) AddFinalResult(result *models.FinalResult) error {
	var teacherID interface{}
	if result.TeacherID != "" {
		teacherID = result.TeacherID
	}
	query := `INSERT INTO final_results (final_exam_id, student_id, subject, marks, grade, remarks, teacher_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at`

	err := s.DB.QueryRow(query,
		result.FinalExamID, result.StudentID, result.Subject, result.Marks,
		result.Grade, result.Remarks, teacherID,
	).Scan(&result.ID, &result.CreatedAt)
	if isForeignKeyViolation(err) {
		return models.NewNotFoundError("Student or final exam not found")
	}
	return err
}

// ReplaceBOWResults deletes the student's existing BOW rows for the exam and
// inserts the replacement batch inside one transaction. Either the whole
// batch lands or nothing changes.
func (s *ExamStore) ReplaceBOWResults(studentID, examID string, results []*models.BOWResult) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryDelete := `DELETE FROM bow_results WHERE student_id = $1 AND exam_id = $2`
	if _, err := tx.Exec(queryDelete, studentID, examID); err != nil {
		return err
	}

	queryInsert := `INSERT INTO bow_results (student_id, exam_id, subject_code, subject_name, credit_hours, marks, grade)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
					RETURNING id, created_at`
	for _, result := range results {
		err := tx.QueryRow(queryInsert,
			studentID, examID, result.SubjectCode, result.SubjectName,
			result.CreditHours, result.Marks, result.Grade,
		).Scan(&result.ID, &result.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return models.NewNotFoundError("Student or final exam not found")
			}
			return err
		}
	}

	return tx.Commit()
}

// BOWResultsForExam returns all BOW rows recorded under an exam.
func (s *ExamStore) BOWResultsForExam(examID string) ([]*models.BOWResult, error) {
	query := `SELECT id, student_id, exam_id, subject_code, subject_name, credit_hours,
			  marks, COALESCE(grade, ''), created_at
			  FROM bow_results WHERE exam_id = $1
			  ORDER BY student_id, subject_code`

	rows, err := s.DB.Query(query, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.BOWResult
	for rows.Next() {
		result := &models.BOWResult{}
		err := rows.Scan(
			&result.ID, &result.StudentID, &result.ExamID, &result.SubjectCode,
			&result.SubjectName, &result.CreditHours, &result.Marks, &result.Grade,
			&result.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
