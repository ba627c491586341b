package database

import (
	"database/sql"
	"fmt"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// StudentFilters represents filtering options for students
type StudentFilters struct {
	Search    string
	ClassName string
	Gender    string
	Limit     int
	Offset    int
}

func CreateStudent(db *sql.DB, student *models.Student) error {
	query := `INSERT INTO students (user_id, admission_number, first_name, last_name, date_of_birth,
			  gender, class_name, section, admission_date, sponsorship_type)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id, created_at, updated_at`

	err := db.QueryRow(query,
		student.UserID, student.AdmissionNumber, student.FirstName, student.LastName,
		student.DateOfBirth, student.Gender, student.ClassName, student.Section,
		student.AdmissionDate, student.SponsorshipType,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("A student with this admission number already exists")
		}
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("User account not found")
		}
		return err
	}
	return nil
}

func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	student := &models.Student{}
	query := `SELECT id, user_id, admission_number, first_name, last_name, date_of_birth,
			  gender, class_name, section, admission_date, sponsorship_type, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`

	var gender, className, section, sponsorship sql.NullString
	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.UserID, &student.AdmissionNumber, &student.FirstName,
		&student.LastName, &student.DateOfBirth, &gender, &className, &section,
		&student.AdmissionDate, &sponsorship, &student.IsActive,
		&student.CreatedAt, &student.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Student record not found")
	}
	if err != nil {
		return nil, err
	}
	student.Gender = models.Gender(gender.String)
	student.ClassName = className.String
	student.Section = section.String
	student.SponsorshipType = models.SponsorshipType(sponsorship.String)
	return student, nil
}

func GetStudentByUserID(db *sql.DB, userID string) (*models.Student, error) {
	query := `SELECT id FROM students WHERE user_id = $1 AND deleted_at IS NULL`

	var studentID string
	err := db.QueryRow(query, userID).Scan(&studentID)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("Student record not found")
	}
	if err != nil {
		return nil, err
	}
	return GetStudentByID(db, studentID)
}

func GetStudents(db *sql.DB, filters StudentFilters) ([]*models.Student, error) {
	baseQuery := `SELECT id, user_id, admission_number, first_name, last_name, date_of_birth,
				  gender, class_name, section, admission_date, sponsorship_type, is_active, created_at, updated_at
				  FROM students WHERE deleted_at IS NULL AND is_active = true`

	var args []interface{}
	argIndex := 1

	if filters.Search != "" {
		baseQuery += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR admission_number ILIKE $%d)",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+filters.Search+"%")
		argIndex++
	}
	if filters.ClassName != "" {
		baseQuery += fmt.Sprintf(" AND class_name = $%d", argIndex)
		args = append(args, filters.ClassName)
		argIndex++
	}
	if filters.Gender != "" {
		baseQuery += fmt.Sprintf(" AND gender = $%d", argIndex)
		args = append(args, filters.Gender)
		argIndex++
	}

	baseQuery += " ORDER BY last_name, first_name"

	if filters.Limit > 0 {
		baseQuery += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}
	if filters.Offset > 0 {
		baseQuery += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	rows, err := db.Query(baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		var gender, className, section, sponsorship sql.NullString
		err := rows.Scan(
			&student.ID, &student.UserID, &student.AdmissionNumber, &student.FirstName,
			&student.LastName, &student.DateOfBirth, &gender, &className, &section,
			&student.AdmissionDate, &sponsorship, &student.IsActive,
			&student.CreatedAt, &student.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		student.Gender = models.Gender(gender.String)
		student.ClassName = className.String
		student.Section = section.String
		student.SponsorshipType = models.SponsorshipType(sponsorship.String)
		students = append(students, student)
	}
	return students, rows.Err()
}

func UpdateStudent(db *sql.DB, student *models.Student) error {
	query := `UPDATE students SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			  class_name = $5, section = $6, sponsorship_type = $7, updated_at = NOW()
			  WHERE id = $8 AND deleted_at IS NULL`

	result, err := db.Exec(query,
		student.FirstName, student.LastName, student.DateOfBirth, student.Gender,
		student.ClassName, student.Section, student.SponsorshipType, student.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("Student record not found")
	}
	return nil
}

func DeactivateStudent(db *sql.DB, studentID string) error {
	query := `UPDATE students SET is_active = false, deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`

	result, err := db.Exec(query, studentID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("Student record not found")
	}
	return nil
}
