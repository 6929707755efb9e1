package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketerAssignment binds one marketer to one course with an agreed
// commission rate. At most one active assignment per (marketer, course) pair;
// duplicates are rejected, not merged.
type MarketerAssignment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID     uuid.UUID `gorm:"not null;uniqueIndex:idx_marketer_course" json:"course_id"`
	InstructorID uuid.UUID `gorm:"not null;index" json:"instructor_id"`
	MarketerID   uuid.UUID `gorm:"not null;uniqueIndex:idx_marketer_course" json:"marketer_id"`

	// Denormalized display fields, captured at assignment time.
	MarketerName  string `gorm:"size:255" json:"marketer_name"`
	MarketerEmail string `gorm:"size:255" json:"marketer_email"`
	CourseName    string `gorm:"size:255" json:"course_name"`

	// CommissionRate is a whole percentage, 1-50 by convention.
	CommissionRate int `gorm:"not null" json:"commission_rate"`

	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
