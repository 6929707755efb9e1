package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
)

// GormRecordStore is the production RecordStore backed by the shared gorm
// connection. Every call is attempted exactly once; retries are up to the
// caller, and in the enrollment flow there are none.
type GormRecordStore struct{}

func (GormRecordStore) CreateRequest(req *models.EnrollmentRequest) error {
	return database.DB.Create(req).Error
}

func (GormRecordStore) UpdateRequest(id uuid.UUID, updates map[string]interface{}) (*models.EnrollmentRequest, error) {
	var req models.EnrollmentRequest
	if err := database.DB.First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := validateStatusUpdate(req.Status, updates); err != nil {
		return nil, err
	}
	if err := database.DB.Model(&req).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// validateStatusUpdate keeps the lifecycle append-only on the learner-side
// update path too. A record an instructor already rejected while the
// session was still live must not come back as pending.
func validateStatusUpdate(current string, updates map[string]interface{}) error {
	next, ok := updates["status"].(string)
	if !ok || next == current {
		return nil
	}
	if !models.CanTransitionStatus(current, next) {
		return fmt.Errorf("request status cannot move from %s to %s", current, next)
	}
	return nil
}
