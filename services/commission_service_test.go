package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/masarhq/masar_backend/models"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommission(t *testing.T) {
	assert.Equal(t, int64(5250), RecordCommission(150, 350, 10))
	assert.Equal(t, int64(10500), RecordCommission(300, 350, 10))
	assert.Equal(t, int64(0), RecordCommission(0, 350, 10))
	// rounding to the nearest whole pound
	assert.Equal(t, int64(18), RecordCommission(1, 350, 5))
}

func referralRecord(courseID uuid.UUID, status string, amount float64) models.EnrollmentRequest {
	m := "M1"
	return models.EnrollmentRequest{
		ID:         uuid.New(),
		CourseID:   courseID,
		Status:     status,
		Amount:     amount,
		MarketerID: &m,
	}
}

func TestComputeMarketerEarningsSettlesOnlyAccepted(t *testing.T) {
	courseID := uuid.New()
	assignments := []models.MarketerAssignment{
		{ID: uuid.New(), CourseID: courseID, CommissionRate: 10},
	}
	referrals := []models.EnrollmentRequest{
		referralRecord(courseID, models.RequestStatusAccepted, 150),
		referralRecord(courseID, models.RequestStatusAccepted, 150),
		referralRecord(courseID, models.RequestStatusPending, 150),
		referralRecord(courseID, models.RequestStatusReserved, 150),
		referralRecord(courseID, models.RequestStatusRejected, 150),
	}

	earnings := ComputeMarketerEarnings(assignments, referrals, 350)

	assert.Equal(t, int64(10500), earnings.Settled, "2 accepted × 5250")
	assert.Equal(t, int64(10500), earnings.Estimated, "pending + reserved surfaced separately")
	assert.Len(t, earnings.Courses, 1)
	assert.Equal(t, 2, earnings.Courses[0].Accepted)
	assert.Equal(t, 2, earnings.Courses[0].Pending)
}

func TestComputeMarketerEarningsIgnoresRecordsWithoutAssignment(t *testing.T) {
	assignedCourse := uuid.New()
	deletedAssignmentCourse := uuid.New()

	assignments := []models.MarketerAssignment{
		{ID: uuid.New(), CourseID: assignedCourse, CommissionRate: 10},
	}
	referrals := []models.EnrollmentRequest{
		referralRecord(assignedCourse, models.RequestStatusAccepted, 150),
		// assignment later deleted: contributes zero, raises no error
		referralRecord(deletedAssignmentCourse, models.RequestStatusAccepted, 999),
	}

	earnings := ComputeMarketerEarnings(assignments, referrals, 350)
	assert.Equal(t, int64(5250), earnings.Settled)
}

func TestComputeMarketerEarningsEmpty(t *testing.T) {
	earnings := ComputeMarketerEarnings(nil, nil, 350)
	assert.Zero(t, earnings.Settled)
	assert.Zero(t, earnings.Estimated)
	assert.Empty(t, earnings.Courses)
}
