package models

import "time"

// Student represents an enrolled student. Admission numbers are unique
// across the school.
type Student struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID          *string         `json:"user_id,omitempty" gorm:"index;type:uuid" validate:"omitempty,uuid"`
	AdmissionNumber string          `json:"admission_number" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName       string          `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string          `json:"last_name" gorm:"not null" validate:"required"`
	DateOfBirth     *time.Time      `json:"date_of_birth,omitempty" gorm:"type:date"`
	Gender          Gender          `json:"gender,omitempty" gorm:"type:varchar(10)"`
	ClassName       string          `json:"class_name,omitempty" gorm:"type:varchar(50)"`
	Section         string          `json:"section,omitempty" gorm:"type:varchar(50)"`
	AdmissionDate   *time.Time      `json:"admission_date,omitempty" gorm:"type:date"`
	SponsorshipType SponsorshipType `json:"sponsorship_type,omitempty" gorm:"type:varchar(50)"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
