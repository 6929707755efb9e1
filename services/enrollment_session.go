package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masarhq/masar_backend/models"
	"github.com/masarhq/masar_backend/utils"
	"gorm.io/datatypes"
)

// SessionState names one step of the enrollment wizard.
type SessionState string

const (
	StateCollectingDetails SessionState = "collecting-details"
	StateChoosingPayment   SessionState = "choosing-payment-method"
	StateBankInstructions  SessionState = "bank-instructions"
	StateMomoInstructions  SessionState = "momo-instructions"
	StateUploadingProof    SessionState = "uploading-proof"
	StateDone              SessionState = "done"
)

var ErrInvalidTransition = errors.New("invalid enrollment session transition")

// ReferralToken is the marketer attribution captured from a tracking link,
// passed explicitly at session construction and consumed once a record is
// successfully created from it.
type ReferralToken struct {
	MarketerID string `json:"marketer_id"`
	CourseID   string `json:"course_id,omitempty"`
	AutoEnroll bool   `json:"auto_enroll,omitempty"`
}

// CourseSnapshot is the read-only course data an enrollment session needs.
// Price is captured here so the record amount can never drift from what the
// learner was shown.
type CourseSnapshot struct {
	ID           uuid.UUID            `json:"id"`
	InstructorID uuid.UUID            `json:"instructor_id"`
	Title        string               `json:"title"`
	Price        float64              `json:"price"`
	Mode         string               `json:"mode"`
	Fields       []models.FieldConfig `json:"fields"`
}

// WriteOutcome separates the learner-visible completion signal from the
// durable-write acknowledgment. The session still reaches "done" when the
// store fails, but callers that need the truth (reconciliation, dashboards)
// read it here instead of assuming a record exists.
type WriteOutcome struct {
	Attempted bool       `json:"attempted"`
	Succeeded bool       `json:"succeeded"`
	RecordID  *uuid.UUID `json:"record_id,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// RecordStore is the persistence collaborator the session writes through.
type RecordStore interface {
	CreateRequest(req *models.EnrollmentRequest) error
	UpdateRequest(id uuid.UUID, updates map[string]interface{}) (*models.EnrollmentRequest, error)
}

// EnrollmentSession is the explicit state machine behind the enrollment
// wizard: one session produces at most one enrollment record. The whole
// struct is JSON-serializable so it can live in the session store between
// HTTP calls.
type EnrollmentSession struct {
	ID       string         `json:"id"`
	Course   CourseSnapshot `json:"course"`
	Referral *ReferralToken `json:"referral,omitempty"`

	State        SessionState      `json:"state"`
	PayLater     bool              `json:"pay_later"`
	PayMethod    string            `json:"pay_method,omitempty"`
	MomoProvider string            `json:"momo_provider,omitempty"`
	Values       map[string]string `json:"values"`
	Note         string            `json:"note,omitempty"`
	ReceiptURL   string            `json:"receipt_url,omitempty"`
	ReferenceNo  string            `json:"reference_no"`

	// RecordID carries the reserved record forward so a later payment
	// submission updates it instead of creating a duplicate.
	RecordID  *uuid.UUID   `json:"record_id,omitempty"`
	LastWrite WriteOutcome `json:"last_write"`

	CreatedAt time.Time `json:"created_at"`
}

// NewEnrollmentSession starts a wizard for one course. The referral token, if
// any, is handed over explicitly here; nothing is read from ambient state.
func NewEnrollmentSession(course CourseSnapshot, referral *ReferralToken) *EnrollmentSession {
	return &EnrollmentSession{
		ID:          uuid.NewString(),
		Course:      course,
		Referral:    referral,
		State:       StateCollectingDetails,
		Values:      map[string]string{},
		ReferenceNo: utils.GenerateReferenceNo(course.ID),
		CreatedAt:   time.Now(),
	}
}

// SubmitDetails validates the learner's values and leaves collecting-details.
// Field errors block the transition; nothing is partially saved. On the
// pay-later branch the reserved record is written immediately and the session
// completes; otherwise it moves on to payment-method choice.
func (s *EnrollmentSession) SubmitDetails(store RecordStore, values map[string]string, payLater bool) (map[string]string, error) {
	if s.State != StateCollectingDetails {
		return nil, fmt.Errorf("%w: cannot submit details in state %q", ErrInvalidTransition, s.State)
	}

	if fieldErrs := models.ValidateEnrollmentValues(s.Course.Fields, values); len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	s.Values = values
	s.PayLater = payLater

	if payLater {
		// A session that already wrote its record (restart, then back to
		// the details step) refreshes it in place; one record per session.
		if s.RecordID != nil {
			s.refreshRecordDetails(store)
		} else {
			s.createRecord(store, models.RequestStatusReserved, models.PaymentMethodNone)
		}
		s.State = StateDone
		return nil, nil
	}

	s.State = StateChoosingPayment
	return nil, nil
}

// ChoosePaymentMethod moves to the instruction screen for bank or momo.
func (s *EnrollmentSession) ChoosePaymentMethod(method string) error {
	if s.State != StateChoosingPayment {
		return fmt.Errorf("%w: cannot choose payment method in state %q", ErrInvalidTransition, s.State)
	}
	switch method {
	case models.PaymentMethodBank:
		s.State = StateBankInstructions
	case models.PaymentMethodMomo:
		s.State = StateMomoInstructions
	default:
		return fmt.Errorf("unknown payment method %q", method)
	}
	s.PayMethod = method
	return nil
}

// SetMomoProvider records the wallet operator while on the momo screen.
func (s *EnrollmentSession) SetMomoProvider(provider string) error {
	if s.State != StateMomoInstructions {
		return fmt.Errorf("%w: cannot set momo provider in state %q", ErrInvalidTransition, s.State)
	}
	s.MomoProvider = provider
	return nil
}

// ConfirmInstructions is the learner's "I've paid" action.
func (s *EnrollmentSession) ConfirmInstructions() error {
	if s.State != StateBankInstructions && s.State != StateMomoInstructions {
		return fmt.Errorf("%w: cannot confirm instructions in state %q", ErrInvalidTransition, s.State)
	}
	s.State = StateUploadingProof
	return nil
}

// Back navigates one step backwards with no side effects.
func (s *EnrollmentSession) Back() error {
	switch s.State {
	case StateChoosingPayment:
		s.State = StateCollectingDetails
	case StateBankInstructions, StateMomoInstructions:
		s.State = StateChoosingPayment
	case StateUploadingProof:
		if s.PayMethod == models.PaymentMethodMomo {
			s.State = StateMomoInstructions
		} else {
			s.State = StateBankInstructions
		}
	default:
		return fmt.Errorf("%w: cannot go back from state %q", ErrInvalidTransition, s.State)
	}
	return nil
}

// SubmitProof attaches the payment receipt and completes the session. A
// session that reserved a seat earlier updates that record in place; one that
// paid immediately creates its single record here, entering at pending.
func (s *EnrollmentSession) SubmitProof(store RecordStore, receiptURL, note string) error {
	if s.State != StateUploadingProof {
		return fmt.Errorf("%w: cannot submit proof in state %q", ErrInvalidTransition, s.State)
	}
	if strings.TrimSpace(receiptURL) == "" {
		return errors.New("a payment receipt is required")
	}

	s.ReceiptURL = receiptURL
	s.Note = strings.TrimSpace(note)

	if s.RecordID != nil {
		s.updateRecord(store)
	} else {
		s.createRecord(store, models.RequestStatusPending, s.PayMethod)
	}

	s.PayLater = false
	s.State = StateDone
	return nil
}

// RestartPayment reopens a completed pay-later session so the learner can
// finish paying. The reserved record's id stays on the session, so the
// eventual proof submission updates it rather than creating a second record.
func (s *EnrollmentSession) RestartPayment() error {
	if s.State != StateDone || !s.PayLater {
		return fmt.Errorf("%w: cannot restart payment in state %q", ErrInvalidTransition, s.State)
	}
	s.PayLater = false
	s.State = StateChoosingPayment
	return nil
}

func (s *EnrollmentSession) fieldValue(id string) string {
	return strings.TrimSpace(s.Values[id])
}

func (s *EnrollmentSession) createRecord(store RecordStore, status, payment string) {
	fields := datatypes.JSONMap{}
	for k, v := range s.Values {
		fields[k] = v
	}

	req := &models.EnrollmentRequest{
		CourseID:     s.Course.ID,
		InstructorID: s.Course.InstructorID,
		Name:         s.fieldValue(models.FieldFullName),
		Phone:        models.NormalizePhone(s.fieldValue(models.FieldPhone)),
		Payment:      payment,
		Amount:       s.Course.Price,
		Status:       status,
		Fields:       fields,
		ReferenceNo:  s.ReferenceNo,
	}
	if email := s.fieldValue("email"); email != "" {
		req.Email = &email
	}
	if s.Note != "" {
		req.Note = &s.Note
	}
	if s.ReceiptURL != "" {
		req.ReceiptURL = &s.ReceiptURL
	}
	if s.Referral != nil && s.Referral.MarketerID != "" {
		marketerID := s.Referral.MarketerID
		req.MarketerID = &marketerID
	}

	// The learner-visible flow never blocks on a backend hiccup; the
	// outcome is kept on the session for anyone who needs the truth.
	if err := store.CreateRequest(req); err != nil {
		s.LastWrite = WriteOutcome{Attempted: true, Error: err.Error()}
		return
	}

	s.RecordID = &req.ID
	s.LastWrite = WriteOutcome{Attempted: true, Succeeded: true, RecordID: &req.ID}
	// One link attributes one enrollment.
	s.Referral = nil
}

// refreshRecordDetails re-saves edited learner details onto the record this
// session already owns. Status is left alone so a reservation stays a
// reservation.
func (s *EnrollmentSession) refreshRecordDetails(store RecordStore) {
	fields := datatypes.JSONMap{}
	for k, v := range s.Values {
		fields[k] = v
	}

	updates := map[string]interface{}{
		"name":   s.fieldValue(models.FieldFullName),
		"phone":  models.NormalizePhone(s.fieldValue(models.FieldPhone)),
		"fields": fields,
	}
	if email := s.fieldValue("email"); email != "" {
		updates["email"] = email
	}

	if _, err := store.UpdateRequest(*s.RecordID, updates); err != nil {
		s.LastWrite = WriteOutcome{Attempted: true, RecordID: s.RecordID, Error: err.Error()}
		return
	}
	s.LastWrite = WriteOutcome{Attempted: true, Succeeded: true, RecordID: s.RecordID}
}

func (s *EnrollmentSession) updateRecord(store RecordStore) {
	updates := map[string]interface{}{
		"status":  models.RequestStatusPending,
		"payment": s.PayMethod,
	}
	if s.ReceiptURL != "" {
		updates["receipt_url"] = s.ReceiptURL
	}
	if s.Note != "" {
		updates["note"] = s.Note
	}

	if _, err := store.UpdateRequest(*s.RecordID, updates); err != nil {
		s.LastWrite = WriteOutcome{Attempted: true, RecordID: s.RecordID, Error: err.Error()}
		return
	}
	s.LastWrite = WriteOutcome{Attempted: true, Succeeded: true, RecordID: s.RecordID}
}
