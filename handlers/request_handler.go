package handlers

import (
	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
	"github.com/masarhq/masar_backend/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reserved pending accepted rejected"`
}

// ListInstructorRequests returns the enrollment requests for the
// authenticated instructor's courses.
func ListInstructorRequests(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var requests []models.EnrollmentRequest
	if err := database.DB.Where("instructor_id = ?", instructorID).Order("created_at DESC").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load requests"})
	}
	return c.JSON(requests)
}

// UpdateRequestStatus moves one enrollment request along its lifecycle.
// Transitions are append-only; a rejected record stays rejected.
func UpdateRequestStatus(c *fiber.Ctx) error {
	instructorID := currentUserID(c)
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var req UpdateRequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var record models.EnrollmentRequest
	if err := database.DB.First(&record, "id = ? AND instructor_id = ?", requestID, instructorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Enrollment request not found"})
	}

	if !models.CanTransitionStatus(record.Status, req.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot move request from " + record.Status + " to " + req.Status,
		})
	}

	// Only the status changes; amount and course reference are immutable.
	if err := database.DB.Model(&record).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update request"})
	}
	record.Status = req.Status

	notifyStatusChange(&record)
	return c.JSON(record)
}

// notifyStatusChange emails the learner about the decision and, for accepted
// attributed records, tells the marketer their commission settled.
func notifyStatusChange(record *models.EnrollmentRequest) {
	if record.Email != nil {
		subject, body := "", ""
		switch record.Status {
		case models.RequestStatusAccepted:
			subject = "Your enrollment is confirmed!"
			body = "<h1>You're in!</h1><p>Your payment has been verified and your enrollment is confirmed. Course links will follow shortly.</p>"
		case models.RequestStatusRejected:
			subject = "About your enrollment request"
			body = "<h1>Enrollment not confirmed</h1><p>We could not verify your payment. Please contact the instructor for details.</p>"
		}
		if subject != "" {
			go notifications.SendEmail(record.Name, *record.Email, subject, body)
		}
	}

	if record.Status != models.RequestStatusAccepted || record.MarketerID == nil {
		return
	}
	marketerID, err := uuid.Parse(*record.MarketerID)
	if err != nil {
		return
	}
	var marketer models.User
	if err := database.DB.First(&marketer, "id = ?", marketerID).Error; err != nil {
		return
	}
	go notifications.SendEmail(
		marketer.FullName,
		marketer.Email,
		"A referred student was accepted!",
		"<h1>Commission earned</h1><p>An enrollment you referred was accepted. Check your earnings dashboard for the settled amount.</p>",
	)
}

// Admin read and delete paths.

func ListAllRequests(c *fiber.Ctx) error {
	var requests []models.EnrollmentRequest
	if err := database.DB.Order("created_at DESC").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load requests"})
	}
	return c.JSON(requests)
}

func AdminDeleteRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	result := database.DB.Delete(&models.EnrollmentRequest{}, "id = ?", requestID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete request"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Enrollment request not found"})
	}
	return c.JSON(fiber.Map{"message": "Request deleted"})
}
