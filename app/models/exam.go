package models

import "time"

// FinalExam represents an end-of-semester exam whose results stay embargoed
// until publish_date passes or an administrator publishes it manually.
type FinalExam struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name         string    `json:"name" gorm:"not null" validate:"required"`
	Semester     string    `json:"semester,omitempty" gorm:"type:varchar(50)"`
	AcademicYear string    `json:"academic_year,omitempty" gorm:"type:varchar(20)"`
	PublishDate  time.Time `json:"publish_date" gorm:"not null;index" validate:"required"`
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Results []*FinalResult `json:"results,omitempty" gorm:"foreignKey:FinalExamID;references:ID"`
}

// ExamSlip permits a student to sit a final exam. At most one row exists per
// (student, final exam) pair; invalidation flips is_valid rather than
// deleting, and reactivation flips it back while keeping the clearance
// snapshots taken at first issuance.
type ExamSlip struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID          string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FinalExamID        string    `json:"final_exam_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	GeneratedDate      time.Time `json:"generated_date" gorm:"autoCreateTime"`
	IsValid            bool      `json:"is_valid" gorm:"default:true"`
	FinancialClearance bool      `json:"financial_clearance" gorm:"default:false"`
	AcademicClearance  bool      `json:"academic_clearance" gorm:"default:false"`

	Student *Student   `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Exam    *FinalExam `json:"exam,omitempty" gorm:"foreignKey:FinalExamID;references:ID"`
}
