package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InstructorID uuid.UUID `gorm:"not null;index" json:"instructor_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Price        float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Mode         string    `gorm:"size:20;not null;default:'online'" json:"mode"`
	Level        *string   `gorm:"size:50" json:"level,omitempty"`
	Duration     *string   `gorm:"size:50" json:"duration,omitempty"`
	StartDate    *string   `gorm:"size:50" json:"start_date,omitempty"`

	MeetLink        *string `gorm:"size:255" json:"meet_link,omitempty"`
	GroupLink       *string `gorm:"size:255" json:"group_link,omitempty"`
	LocationAddress *string `gorm:"size:255" json:"location_address,omitempty"`
	LocationMapURL  *string `gorm:"size:255" json:"location_map_url,omitempty"`

	// EnrollmentFields holds the JSON-encoded []FieldConfig the instructor
	// picked for this course's enrollment form.
	EnrollmentFields datatypes.JSON `json:"enrollment_fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	CourseModeOnline   = "online"
	CourseModeInPerson = "in-person"
	CourseModeHybrid   = "hybrid"
)

// FieldConfigs decodes the course's enrollment-field configuration. Courses
// saved before field configuration existed fall back to the default set.
func (c *Course) FieldConfigs() []FieldConfig {
	if len(c.EnrollmentFields) == 0 {
		return DefaultFieldConfigs()
	}
	var configs []FieldConfig
	if err := json.Unmarshal(c.EnrollmentFields, &configs); err != nil || len(configs) == 0 {
		return DefaultFieldConfigs()
	}
	return configs
}

func (c *Course) IsOnline() bool {
	return c.Mode == CourseModeOnline || c.Mode == CourseModeHybrid
}

func (c *Course) IsInPerson() bool {
	return c.Mode == CourseModeInPerson || c.Mode == CourseModeHybrid
}
