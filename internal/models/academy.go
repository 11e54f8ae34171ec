package models

import "time"

type Course struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index" json:"studio_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CourseEnrollment struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID string `gorm:"type:uuid;uniqueIndex:ux_enrollment_course_student;not null" json:"course_id"`
	Course   Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StudentID string `gorm:"type:uuid;uniqueIndex:ux_enrollment_course_student;not null" json:"student_id"`

	AcceptedTermsVersion int `gorm:"default:0" json:"accepted_terms_version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CourseAttendance struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID string `gorm:"type:uuid;uniqueIndex:ux_attendance_session;not null" json:"enrollment_id"`

	SessionDate time.Time `gorm:"uniqueIndex:ux_attendance_session;not null" json:"session_date"`
	Hours       int       `gorm:"default:0" json:"hours"`
	Present     bool      `gorm:"default:true" json:"present"`

	CreatedAt time.Time `json:"created_at"`
}
