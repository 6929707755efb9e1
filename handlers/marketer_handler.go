package handlers

import (
	"errors"
	"fmt"
	"strings"

	config "github.com/masarhq/masar_backend/configs"
	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
	"github.com/masarhq/masar_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAssignmentRequest struct {
	CourseID       string `json:"course_id" validate:"required,uuid"`
	MarketerID     string `json:"marketer_id" validate:"required,uuid"`
	CommissionRate int    `json:"commission_rate" validate:"required,min=1,max=50"`
}

// CreateAssignment binds a marketer to one of the instructor's courses.
// Duplicate (marketer, course) pairs are rejected, and so is a marketer id
// with no counterpart in the users table.
func CreateAssignment(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var req CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	courseID, _ := uuid.Parse(req.CourseID)
	marketerID, _ := uuid.Parse(req.MarketerID)

	var course models.Course
	if err := database.DB.First(&course, "id = ? AND instructor_id = ?", courseID, instructorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var marketer models.User
	if err := database.DB.First(&marketer, "id = ? AND role = ?", marketerID, models.RoleMarketer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Marketer not found"})
	}

	assignment := models.MarketerAssignment{
		CourseID:       course.ID,
		InstructorID:   instructorID,
		MarketerID:     marketer.ID,
		MarketerName:   marketer.FullName,
		MarketerEmail:  marketer.Email,
		CourseName:     course.Title,
		CommissionRate: req.CommissionRate,
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This marketer is already assigned to this course"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create assignment"})
	}

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

func DeleteAssignment(c *fiber.Ctx) error {
	instructorID := currentUserID(c)
	assignmentID, err := uuid.Parse(c.Params("assignmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	result := database.DB.Delete(&models.MarketerAssignment{}, "id = ? AND instructor_id = ?", assignmentID, instructorID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete assignment"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignment not found"})
	}
	return c.JSON(fiber.Map{"message": "Assignment revoked"})
}

func ListInstructorAssignments(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var assignments []models.MarketerAssignment
	if err := database.DB.Where("instructor_id = ?", instructorID).Order("created_at DESC").Find(&assignments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load assignments"})
	}
	return c.JSON(assignments)
}

// assignmentLinks builds the tracking links a marketer shares: a plain
// referral link and a form link that auto-opens the enrollment wizard.
func assignmentLinks(a models.MarketerAssignment) fiber.Map {
	base := config.Config("APP_BASE_URL")
	if base == "" {
		base = "https://masar.app"
	}
	return fiber.Map{
		"referral_link": fmt.Sprintf("%s/?ref=%s&course=%s", base, a.MarketerID, a.CourseID),
		"form_link":     fmt.Sprintf("%s/?ref=%s&course=%s&enroll=1", base, a.MarketerID, a.CourseID),
	}
}

// ListMyAssignments returns the marketer's own assignments with their
// shareable tracking links.
func ListMyAssignments(c *fiber.Ctx) error {
	marketerID := currentUserID(c)

	var assignments []models.MarketerAssignment
	if err := database.DB.Where("marketer_id = ?", marketerID).Order("created_at DESC").Find(&assignments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load assignments"})
	}

	out := make([]fiber.Map, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, fiber.Map{
			"assignment": a,
			"links":      assignmentLinks(a),
		})
	}
	return c.JSON(out)
}

// ListMyReferrals returns the enrollment requests attributed to the marketer.
func ListMyReferrals(c *fiber.Ctx) error {
	marketerID := currentUserID(c)

	var referrals []models.EnrollmentRequest
	if err := database.DB.Where("marketer_id = ?", marketerID.String()).Order("created_at DESC").Find(&referrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load referrals"})
	}
	return c.JSON(referrals)
}

// GetMyEarnings returns the marketer's settled and estimated commissions.
func GetMyEarnings(c *fiber.Ctx) error {
	marketerID := currentUserID(c)

	earnings, err := services.MarketerEarningsFor(marketerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute earnings"})
	}
	return c.JSON(earnings)
}
