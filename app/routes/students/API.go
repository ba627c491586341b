package students

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// StudentRequest is the JSON payload for creating or updating a student.
type StudentRequest struct {
	AdmissionNumber string  `json:"admission_number"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	DateOfBirth     *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender          string  `json:"gender,omitempty"`
	ClassName       string  `json:"class_name,omitempty"`
	Section         string  `json:"section,omitempty"`
	AdmissionDate   *string `json:"admission_date,omitempty"` // YYYY-MM-DD
	SponsorshipType string  `json:"sponsorship_type,omitempty"`
	UserID          *string `json:"user_id,omitempty"`
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, models.NewValidationError("Dates must be in YYYY-MM-DD format")
	}
	return &parsed, nil
}

func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.StudentFilters{
		Search:    c.Query("search"),
		ClassName: c.Query("class_name"),
		Gender:    c.Query("gender"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}

	students, err := database.GetStudents(db, filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{"success": true, "students": students})
}

func GetStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "student": student})
}

func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	if req.AdmissionNumber == "" || req.FirstName == "" || req.LastName == "" {
		return models.NewValidationError("Admission number, first name and last name are required")
	}

	dateOfBirth, err := parseDate(req.DateOfBirth)
	if err != nil {
		return err
	}
	admissionDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		return err
	}

	student := &models.Student{
		UserID:          req.UserID,
		AdmissionNumber: req.AdmissionNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DateOfBirth:     dateOfBirth,
		Gender:          models.Gender(req.Gender),
		ClassName:       req.ClassName,
		Section:         req.Section,
		AdmissionDate:   admissionDate,
		SponsorshipType: models.SponsorshipType(req.SponsorshipType),
	}

	if err := database.CreateStudent(db, student); err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Student created successfully",
		"student": student,
	})
}

func UpdateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		return err
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.Gender != "" {
		student.Gender = models.Gender(req.Gender)
	}
	if req.ClassName != "" {
		student.ClassName = req.ClassName
	}
	if req.Section != "" {
		student.Section = req.Section
	}
	if req.SponsorshipType != "" {
		student.SponsorshipType = models.SponsorshipType(req.SponsorshipType)
	}
	if dateOfBirth, err := parseDate(req.DateOfBirth); err != nil {
		return err
	} else if dateOfBirth != nil {
		student.DateOfBirth = dateOfBirth
	}

	if err := database.UpdateStudent(db, student); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student updated successfully",
		"student": student,
	})
}

func DeactivateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateStudent(db, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Student deactivated"})
}
