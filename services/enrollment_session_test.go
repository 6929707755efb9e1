package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/masarhq/masar_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordStore struct {
	created    []models.EnrollmentRequest
	updated    map[uuid.UUID]map[string]interface{}
	statuses   map[uuid.UUID]string
	failCreate bool
	failUpdate bool
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		updated:  map[uuid.UUID]map[string]interface{}{},
		statuses: map[uuid.UUID]string{},
	}
}

func (f *fakeRecordStore) CreateRequest(req *models.EnrollmentRequest) error {
	if f.failCreate {
		return errors.New("connection refused")
	}
	req.ID = uuid.New()
	f.created = append(f.created, *req)
	f.statuses[req.ID] = req.Status
	return nil
}

func (f *fakeRecordStore) UpdateRequest(id uuid.UUID, updates map[string]interface{}) (*models.EnrollmentRequest, error) {
	if f.failUpdate {
		return nil, errors.New("connection refused")
	}
	if err := validateStatusUpdate(f.statuses[id], updates); err != nil {
		return nil, err
	}
	if next, ok := updates["status"].(string); ok {
		f.statuses[id] = next
	}
	f.updated[id] = updates
	return &models.EnrollmentRequest{ID: id}, nil
}

func testCourse() CourseSnapshot {
	return CourseSnapshot{
		ID:           uuid.New(),
		InstructorID: uuid.New(),
		Title:        "Intro to Data Science",
		Price:        300,
		Mode:         models.CourseModeOnline,
		Fields: []models.FieldConfig{
			{FieldID: models.FieldFullName, Required: true},
			{FieldID: models.FieldPhone, Required: true},
			{FieldID: "email", Required: false},
		},
	}
}

func validValues() map[string]string {
	return map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "0998765432",
	}
}

func TestSubmitDetailsBlockedOnMissingRequiredField(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	fieldErrs, err := sess.SubmitDetails(store, map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "",
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "Phone Number is required", fieldErrs["phone"])
	assert.Equal(t, StateCollectingDetails, sess.State, "transition must be blocked")
	assert.Empty(t, store.created, "no record on validation failure")
}

func TestPayNowFlowEndToEnd(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	// empty phone blocked first
	fieldErrs, err := sess.SubmitDetails(store, map[string]string{"fullName": "Mohammed Ahmed"}, false)
	require.NoError(t, err)
	require.NotEmpty(t, fieldErrs)

	fieldErrs, err = sess.SubmitDetails(store, validValues(), false)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	assert.Equal(t, StateChoosingPayment, sess.State)
	assert.Empty(t, store.created, "pay-now writes nothing before proof")

	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodBank))
	assert.Equal(t, StateBankInstructions, sess.State)

	require.NoError(t, sess.ConfirmInstructions())
	assert.Equal(t, StateUploadingProof, sess.State)

	require.NoError(t, sess.SubmitProof(store, "https://cdn.example/receipt.png", "see you in class"))
	assert.Equal(t, StateDone, sess.State)

	require.Len(t, store.created, 1)
	rec := store.created[0]
	assert.Equal(t, models.RequestStatusPending, rec.Status)
	assert.Equal(t, models.PaymentMethodBank, rec.Payment)
	assert.Equal(t, 300.0, rec.Amount)
	assert.Equal(t, "0998765432", rec.Phone)
	assert.True(t, sess.LastWrite.Succeeded)
}

func TestPayLaterCreatesExactlyOneReservedRecord(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	fieldErrs, err := sess.SubmitDetails(store, validValues(), true)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, StateDone, sess.State)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.RequestStatusReserved, store.created[0].Status)
	assert.Equal(t, models.PaymentMethodNone, store.created[0].Payment)

	// viewing the confirmation screen is not a write; a second submit is an
	// invalid transition, not a duplicate record
	_, err = sess.SubmitDetails(store, validValues(), true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, store.created, 1)
}

func TestPayLaterRestartUpdatesInsteadOfDuplicating(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	_, err := sess.SubmitDetails(store, validValues(), true)
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	reservedID := store.created[0].ID

	require.NoError(t, sess.RestartPayment())
	assert.Equal(t, StateChoosingPayment, sess.State)

	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodMomo))
	require.NoError(t, sess.SetMomoProvider("zain"))
	require.NoError(t, sess.ConfirmInstructions())
	require.NoError(t, sess.SubmitProof(store, "https://cdn.example/receipt.png", ""))

	assert.Len(t, store.created, 1, "no second record on the complete-payment path")
	updates, ok := store.updated[reservedID]
	require.True(t, ok, "reserved record must be updated in place")
	assert.Equal(t, models.RequestStatusPending, updates["status"])
	assert.Equal(t, models.PaymentMethodMomo, updates["payment"])
}

func TestPayLaterResubmitAfterBackKeepsSingleRecord(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	_, err := sess.SubmitDetails(store, validValues(), true)
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	reservedID := store.created[0].ID

	// learner changes their mind, then backs out to edit their details
	require.NoError(t, sess.RestartPayment())
	require.NoError(t, sess.Back())
	assert.Equal(t, StateCollectingDetails, sess.State)

	edited := validValues()
	edited["fullName"] = "Mohammed A. Ahmed"
	fieldErrs, err := sess.SubmitDetails(store, edited, true)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, StateDone, sess.State)
	assert.Len(t, store.created, 1, "reserving again must not duplicate the record")
	updates, ok := store.updated[reservedID]
	require.True(t, ok, "edited details land on the existing record")
	assert.Equal(t, "Mohammed A. Ahmed", updates["name"])
	assert.NotContains(t, updates, "status", "reservation status is untouched")
	assert.True(t, sess.LastWrite.Succeeded)
	assert.Equal(t, reservedID, *sess.LastWrite.RecordID)
}

func TestRejectedRecordNotResurrectedByProof(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	_, err := sess.SubmitDetails(store, validValues(), true)
	require.NoError(t, err)
	reservedID := store.created[0].ID

	// instructor rejects while the learner's session is still live
	store.statuses[reservedID] = models.RequestStatusRejected

	require.NoError(t, sess.RestartPayment())
	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodBank))
	require.NoError(t, sess.ConfirmInstructions())
	require.NoError(t, sess.SubmitProof(store, "https://cdn.example/receipt.png", ""))

	assert.Equal(t, StateDone, sess.State, "learner flow still completes")
	assert.False(t, sess.LastWrite.Succeeded)
	assert.NotEmpty(t, sess.LastWrite.Error)
	assert.Equal(t, models.RequestStatusRejected, store.statuses[reservedID])
	assert.NotContains(t, store.updated, reservedID, "no write lands on a rejected record")
}

func TestProofRequiresReceipt(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	_, err := sess.SubmitDetails(store, validValues(), false)
	require.NoError(t, err)
	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodBank))
	require.NoError(t, sess.ConfirmInstructions())

	err = sess.SubmitProof(store, "   ", "")
	require.Error(t, err)
	assert.Equal(t, StateUploadingProof, sess.State)
	assert.Empty(t, store.created)
}

func TestBackNavigationHasNoSideEffects(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	_, err := sess.SubmitDetails(store, validValues(), false)
	require.NoError(t, err)
	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodMomo))

	require.NoError(t, sess.Back())
	assert.Equal(t, StateChoosingPayment, sess.State)
	require.NoError(t, sess.Back())
	assert.Equal(t, StateCollectingDetails, sess.State)
	assert.Empty(t, store.created)

	assert.Error(t, sess.Back(), "no step before collecting-details")
}

func TestReferralAttributionAndConsumption(t *testing.T) {
	store := newFakeRecordStore()
	course := testCourse()
	token := &ReferralToken{MarketerID: "M1", CourseID: course.ID.String()}
	sess := NewEnrollmentSession(course, token)

	_, err := sess.SubmitDetails(store, validValues(), false)
	require.NoError(t, err)
	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodBank))
	require.NoError(t, sess.ConfirmInstructions())
	require.NoError(t, sess.SubmitProof(store, "https://cdn.example/receipt.png", ""))

	require.Len(t, store.created, 1)
	rec := store.created[0]
	require.NotNil(t, rec.MarketerID)
	assert.Equal(t, "M1", *rec.MarketerID)
	assert.Equal(t, course.ID, rec.CourseID)
	assert.Nil(t, sess.Referral, "token is consumed after a successful write")
}

func TestNoReferralMeansNoMarketerID(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	_, err := sess.SubmitDetails(store, validValues(), true)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Nil(t, store.created[0].MarketerID)
}

func TestStoreFailureStillCompletesSession(t *testing.T) {
	store := newFakeRecordStore()
	store.failCreate = true
	sess := NewEnrollmentSession(testCourse(), &ReferralToken{MarketerID: "M1"})

	_, err := sess.SubmitDetails(store, validValues(), false)
	require.NoError(t, err)
	require.NoError(t, sess.ChoosePaymentMethod(models.PaymentMethodBank))
	require.NoError(t, sess.ConfirmInstructions())
	require.NoError(t, sess.SubmitProof(store, "https://cdn.example/receipt.png", ""))

	assert.Equal(t, StateDone, sess.State, "learner-visible flow never blocks on a backend hiccup")
	assert.True(t, sess.LastWrite.Attempted)
	assert.False(t, sess.LastWrite.Succeeded)
	assert.NotEmpty(t, sess.LastWrite.Error)
	assert.NotNil(t, sess.Referral, "token survives a failed write; nothing was attributed")
}

func TestInvalidTransitionsAreRejected(t *testing.T) {
	store := newFakeRecordStore()
	sess := NewEnrollmentSession(testCourse(), nil)

	assert.Error(t, sess.ChoosePaymentMethod(models.PaymentMethodBank))
	assert.Error(t, sess.ConfirmInstructions())
	assert.Error(t, sess.SubmitProof(store, "x", ""))
	assert.Error(t, sess.RestartPayment())
	assert.Error(t, sess.SetMomoProvider("mtn"))

	_, err := sess.SubmitDetails(store, validValues(), false)
	require.NoError(t, err)
	assert.Error(t, sess.ChoosePaymentMethod("cash"), "unknown payment method")
	assert.Error(t, sess.RestartPayment(), "restart only from a completed pay-later session")
}
