package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CourseRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Mode        string  `json:"mode" validate:"required,oneof=online in-person hybrid"`
	Level       *string `json:"level,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`

	MeetLink        *string `json:"meet_link,omitempty"`
	GroupLink       *string `json:"group_link,omitempty"`
	LocationAddress *string `json:"location_address,omitempty"`
	LocationMapURL  *string `json:"location_map_url,omitempty"`

	EnrollmentFields []models.FieldConfig `json:"enrollment_fields,omitempty"`
}

// validateFieldConfigs rejects field ids absent from the catalog at authoring
// time, so a misconfigured course never reaches learners.
func validateFieldConfigs(configs []models.FieldConfig) error {
	for _, fc := range configs {
		if _, ok := models.FieldByID(fc.FieldID); !ok {
			return fmt.Errorf("unknown enrollment field %q", fc.FieldID)
		}
	}
	return nil
}

func CreateCourse(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validateFieldConfigs(req.EnrollmentFields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fields := req.EnrollmentFields
	if len(fields) == 0 {
		fields = models.DefaultFieldConfigs()
	}
	encoded, err := json.Marshal(models.EffectiveFieldConfigs(fields))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to encode enrollment fields"})
	}

	course := models.Course{
		InstructorID:     instructorID,
		Title:            req.Title,
		Description:      req.Description,
		Price:            req.Price,
		Mode:             req.Mode,
		Level:            req.Level,
		Duration:         req.Duration,
		StartDate:        req.StartDate,
		MeetLink:         req.MeetLink,
		GroupLink:        req.GroupLink,
		LocationAddress:  req.LocationAddress,
		LocationMapURL:   req.LocationMapURL,
		EnrollmentFields: encoded,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	instructorID := currentUserID(c)
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ? AND instructor_id = ?", courseID, instructorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validateFieldConfigs(req.EnrollmentFields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Price = req.Price
	course.Mode = req.Mode
	course.Level = req.Level
	course.Duration = req.Duration
	course.StartDate = req.StartDate
	course.MeetLink = req.MeetLink
	course.GroupLink = req.GroupLink
	course.LocationAddress = req.LocationAddress
	course.LocationMapURL = req.LocationMapURL
	if len(req.EnrollmentFields) > 0 {
		encoded, err := json.Marshal(models.EffectiveFieldConfigs(req.EnrollmentFields))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to encode enrollment fields"})
		}
		course.EnrollmentFields = encoded
	}

	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	instructorID := currentUserID(c)
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	result := database.DB.Delete(&models.Course{}, "id = ? AND instructor_id = ?", courseID, instructorID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(fiber.Map{"message": "Course deleted"})
}

func ListMyCourses(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var courses []models.Course
	if err := database.DB.Where("instructor_id = ?", instructorID).Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load courses"})
	}
	return c.JSON(courses)
}

func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.DB.Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load courses"})
	}
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(course)
}
