package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EnrollmentRequest is the persisted outcome of one learner's enrollment
// session: seat reservation or submitted payment, waiting for review.
type EnrollmentRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID     uuid.UUID `gorm:"not null;index" json:"course_id"`
	InstructorID uuid.UUID `gorm:"not null;index" json:"instructor_id"`

	Name  string  `gorm:"size:255;not null" json:"name"`
	Phone string  `gorm:"size:20;not null" json:"phone"`
	Email *string `gorm:"size:255" json:"email,omitempty"`

	// Payment is "bank", "momo" or "none" for a seat held without payment.
	Payment string `gorm:"size:20;not null;default:'none'" json:"payment"`
	// Amount is copied from the course price at creation time and never
	// recomputed afterwards.
	Amount float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status string  `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Fields carries every learner-supplied value keyed by field id.
	Fields      datatypes.JSONMap `json:"fields"`
	Note        *string           `gorm:"type:text" json:"note,omitempty"`
	ReceiptURL  *string           `gorm:"size:512" json:"receipt_url,omitempty"`
	ReferenceNo string            `gorm:"size:40" json:"reference_no"`

	// MarketerID tags the record with the marketer whose tracking link
	// produced it. Opaque string, resolved against marketer assignments at
	// commission-calculation time.
	MarketerID *string `gorm:"size:64;index" json:"marketer_id,omitempty"`

	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RequestStatusReserved = "reserved"
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

const (
	PaymentMethodBank = "bank"
	PaymentMethodMomo = "momo"
	PaymentMethodNone = "none"
)

// statusSuccessors is the append-only lifecycle: a reserved seat becomes
// pending once proof is submitted, a pending request is accepted or rejected,
// and both outcomes are terminal. No resurrection of a rejected record.
var statusSuccessors = map[string][]string{
	RequestStatusReserved: {RequestStatusPending, RequestStatusRejected},
	RequestStatusPending:  {RequestStatusAccepted, RequestStatusRejected},
	RequestStatusAccepted: {},
	RequestStatusRejected: {},
}

// ValidRequestStatus reports whether s names a lifecycle status at all.
func ValidRequestStatus(s string) bool {
	_, ok := statusSuccessors[s]
	return ok
}

// CanTransitionStatus reports whether from may legally move to to.
func CanTransitionStatus(from, to string) bool {
	for _, next := range statusSuccessors[from] {
		if next == to {
			return true
		}
	}
	return false
}
