package models

import "time"

// FinalResult stores a student's mark for one subject under a final exam.
// Visibility to students is gated by the exam's is_published flag.
type FinalResult struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	FinalExamID string    `json:"final_exam_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID   string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Subject     string    `json:"subject" gorm:"not null" validate:"required"`
	Marks       float64   `json:"marks" gorm:"not null;type:decimal(5,2)" validate:"gte=0"`
	Grade       string    `json:"grade,omitempty" gorm:"type:varchar(5)"`
	Remarks     string    `json:"remarks,omitempty" gorm:"type:varchar(200)"`
	TeacherID   string    `json:"teacher_id,omitempty" gorm:"index;type:uuid"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Exam    *FinalExam `json:"exam,omitempty" gorm:"foreignKey:FinalExamID;references:ID"`
	Student *Student   `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// BOWResult is one subject row of a BOW Corporation result set. A student's
// rows for an exam are always replaced as a whole batch of 4 to 9 subjects.
type BOWResult struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID   string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ExamID      string    `json:"exam_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SubjectCode string    `json:"subject_code" gorm:"not null;type:varchar(20)" validate:"required"`
	SubjectName string    `json:"subject_name" gorm:"not null" validate:"required"`
	CreditHours int       `json:"credit_hours" gorm:"not null" validate:"gt=0"`
	Marks       float64   `json:"marks" gorm:"not null;type:decimal(5,2)" validate:"gte=0"`
	Grade       string    `json:"grade" gorm:"type:varchar(5)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Student *Student   `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Exam    *FinalExam `json:"exam,omitempty" gorm:"foreignKey:ExamID;references:ID"`
}
