package exams

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/auth"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/services"
)

// CreateFinalExamRequest is the JSON payload for scheduling a final exam.
type CreateFinalExamRequest struct {
	Name         string `json:"name"`
	Semester     string `json:"semester,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	PublishDate  string `json:"publish_date"` // RFC 3339
}

// FinalResultRequest is the JSON payload for one subject mark.
type FinalResultRequest struct {
	StudentID string  `json:"student_id"`
	Subject   string  `json:"subject"`
	Marks     float64 `json:"marks"`
	Remarks   string  `json:"remarks,omitempty"`
}

// ReplaceBOWRequest carries the full replacement subject batch.
type ReplaceBOWRequest struct {
	Subjects []services.SubjectRow `json:"subjects"`
}

func GetFinalExamsAPI(c *fiber.Ctx, store *database.ExamStore) error {
	exams, err := store.ListFinalExams()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch final exams")
	}
	return c.JSON(fiber.Map{"success": true, "exams": exams})
}

func GetFinalExamAPI(c *fiber.Ctx, store *database.ExamStore) error {
	exam, err := store.GetFinalExam(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "exam": exam})
}

func CreateFinalExamAPI(c *fiber.Ctx, store *database.ExamStore) error {
	var req CreateFinalExamRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	if req.Name == "" {
		return models.NewValidationError("Exam name is required")
	}
	publishDate, err := time.Parse(time.RFC3339, req.PublishDate)
	if err != nil {
		return models.NewValidationError("Publish date must be an RFC 3339 timestamp")
	}

	exam := &models.FinalExam{
		Name:         req.Name,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		PublishDate:  publishDate,
		IsPublished:  false,
	}
	if err := store.CreateFinalExam(exam); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create final exam")
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Final exam created successfully",
		"exam":    exam,
	})
}

// TogglePublishAPI flips the publish flag. The flip is free: an admin may
// publish before publish_date or unpublish after the scheduler has fired.
func TogglePublishAPI(c *fiber.Ctx, store *database.ExamStore) error {
	exam, err := store.GetFinalExam(c.Params("id"))
	if err != nil {
		return err
	}

	if err := store.SetPublished(exam.ID, !exam.IsPublished); err != nil {
		return err
	}
	exam.IsPublished = !exam.IsPublished

	message := "Exam results unpublished"
	if exam.IsPublished {
		message = "Exam results published"
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "exam": exam})
}

func AddFinalResultAPI(c *fiber.Ctx, store *database.ExamStore) error {
	exam, err := store.GetFinalExam(c.Params("id"))
	if err != nil {
		return err
	}

	var req FinalResultRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	if req.StudentID == "" || req.Subject == "" {
		return models.NewValidationError("Student and subject are required")
	}
	if req.Marks < 0 || req.Marks > 100 {
		return models.NewValidationError("Marks must be between 0 and 100")
	}

	result := &models.FinalResult{
		FinalExamID: exam.ID,
		StudentID:   req.StudentID,
		Subject:     req.Subject,
		Marks:       req.Marks,
		Grade:       services.GradeFromMarks(req.Marks),
		Remarks:     req.Remarks,
		TeacherID:   c.Locals("user_id").(string),
	}
	if err := store.AddFinalResult(result); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record result")
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Result recorded successfully",
		"result":  result,
	})
}

func GetBOWResultsAPI(c *fiber.Ctx, bow *services.BOWResultService) error {
	results, err := bow.ResultsForExam(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch results")
	}
	return c.JSON(fiber.Map{"success": true, "results": results})
}

// ReplaceBOWResultsAPI swaps a student's BOW result set for the exam. The
// batch is rejected outright unless it has 4 to 9 subjects.
func ReplaceBOWResultsAPI(c *fiber.Ctx, db *sql.DB, bow *services.BOWResultService) error {
	student, err := database.GetStudentByID(db, c.Params("studentId"))
	if err != nil {
		return err
	}

	var req ReplaceBOWRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	results, err := bow.ReplaceStudentResults(student.ID, c.Params("id"), req.Subjects)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Results replaced successfully",
		"results": results,
	})
}

// GenerateExamSlipAPI issues (or reactivates) the logged-in student's slip
// for the exam.
func GenerateExamSlipAPI(c *fiber.Ctx, db *sql.DB, slips *services.ExamSlipService) error {
	userID := c.Locals("user_id").(string)
	student, err := database.GetStudentByUserID(db, userID)
	if err != nil {
		return err
	}

	result, err := slips.Issue(student.ID, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"outcome": result.Outcome,
		"message": result.Message,
		"slip":    result.Slip,
	})
}

func ViewExamSlipAPI(c *fiber.Ctx, db *sql.DB, slips *services.ExamSlipService) error {
	isAdmin := auth.HasRole(c, models.RoleAdmin)

	requesterStudentID := ""
	if !isAdmin {
		student, err := database.GetStudentByUserID(db, c.Locals("user_id").(string))
		if err != nil {
			return err
		}
		requesterStudentID = student.ID
	}

	slip, err := slips.View(c.Params("id"), requesterStudentID, isAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "slip": slip})
}

func InvalidateExamSlipAPI(c *fiber.Ctx, slips *services.ExamSlipService) error {
	if err := slips.Invalidate(c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Exam slip invalidated"})
}

func GetMyExamSlipsAPI(c *fiber.Ctx, db *sql.DB, store *database.ExamStore) error {
	student, err := database.GetStudentByUserID(db, c.Locals("user_id").(string))
	if err != nil {
		return err
	}

	slips, err := store.SlipsForStudent(student.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch exam slips")
	}
	return c.JSON(fiber.Map{"success": true, "slips": slips})
}

// GetMyResultsAPI returns only results under published exams. Publication is
// the single gate: a manual admin publish makes results visible immediately,
// whatever the publish date says.
func GetMyResultsAPI(c *fiber.Ctx, db *sql.DB, store *database.ExamStore) error {
	student, err := database.GetStudentByUserID(db, c.Locals("user_id").(string))
	if err != nil {
		return err
	}

	results, err := store.ResultsForStudent(student.ID, true)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch results")
	}
	return c.JSON(fiber.Map{"success": true, "results": results})
}
