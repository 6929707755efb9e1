package handlers

import (
	"errors"

	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
	"github.com/masarhq/masar_backend/notifications"
	"github.com/masarhq/masar_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StartSessionRequest struct {
	CourseID string                  `json:"course_id" validate:"required,uuid"`
	Referral *services.ReferralToken `json:"referral,omitempty"`
}

type SubmitDetailsRequest struct {
	Values   map[string]string `json:"values" validate:"required"`
	PayLater bool              `json:"pay_later"`
}

type ChooseMethodRequest struct {
	Method       string `json:"method" validate:"required,oneof=bank momo"`
	MomoProvider string `json:"momo_provider,omitempty"`
}

type SubmitProofRequest struct {
	ReceiptURL string `json:"receipt_url" validate:"required"`
	Note       string `json:"note,omitempty"`
}

// renderedField is one input of the enrollment form: the catalog definition
// joined with the course's required flag.
type renderedField struct {
	models.FieldDefinition
	Required bool `json:"required"`
}

func renderFields(configs []models.FieldConfig) []renderedField {
	effective := models.EffectiveFieldConfigs(configs)
	out := make([]renderedField, 0, len(effective))
	for _, fc := range effective {
		def, ok := models.FieldByID(fc.FieldID)
		if !ok {
			continue
		}
		out = append(out, renderedField{FieldDefinition: def, Required: fc.Required})
	}
	return out
}

// sessionView is what every session endpoint returns: the machine state plus
// whatever the current step needs to render.
func sessionView(sess *services.EnrollmentSession) fiber.Map {
	view := fiber.Map{
		"session_id":   sess.ID,
		"state":        sess.State,
		"pay_later":    sess.PayLater,
		"reference_no": sess.ReferenceNo,
		"course":       sess.Course,
		"amount_sdg":   services.AmountSDG(sess.Course.Price),
		"last_write":   sess.LastWrite,
	}

	switch sess.State {
	case services.StateCollectingDetails:
		view["fields"] = renderFields(sess.Course.Fields)
	case services.StateBankInstructions:
		view["instructions"] = services.BankInstructions(sess)
	case services.StateMomoInstructions:
		view["providers"] = services.MomoProviders
		view["instructions"] = services.MomoInstructions(sess)
	}
	return view
}

// ResolveReferralLink turns tracking-link query parameters into the referral
// token the client hands back when starting an enrollment session.
func ResolveReferralLink(c *fiber.Ctx) error {
	token := services.ParseReferralLink(c.Query("ref"), c.Query("course"), c.Query("enroll"))
	if token == nil {
		return c.JSON(fiber.Map{"referral": nil})
	}
	return c.JSON(fiber.Map{"referral": token})
}

func StartEnrollmentSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	courseID, _ := uuid.Parse(req.CourseID)

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	snapshot := services.CourseSnapshot{
		ID:           course.ID,
		InstructorID: course.InstructorID,
		Title:        course.Title,
		Price:        course.Price,
		Mode:         course.Mode,
		Fields:       course.FieldConfigs(),
	}

	sess := services.NewEnrollmentSession(snapshot, req.Referral)
	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}

	return c.Status(fiber.StatusCreated).JSON(sessionView(sess))
}

func GetEnrollmentSession(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}
	return c.JSON(sessionView(sess))
}

func SubmitSessionDetails(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}

	var req SubmitDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	fieldErrs, err := sess.SubmitDetails(services.GormRecordStore{}, req.Values, req.PayLater)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fieldErrs})
	}

	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}

	if req.PayLater && sess.LastWrite.Succeeded {
		notifyInstructor(sess, "New seat reservation", "reserved a seat in")
	}
	return c.JSON(sessionView(sess))
}

func ChooseSessionPaymentMethod(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}

	var req ChooseMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := sess.ChoosePaymentMethod(req.Method); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Method == models.PaymentMethodMomo && req.MomoProvider != "" {
		if err := sess.SetMomoProvider(req.MomoProvider); err != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}
	return c.JSON(sessionView(sess))
}

func ConfirmSessionInstructions(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}
	if err := sess.ConfirmInstructions(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}
	return c.JSON(sessionView(sess))
}

func SessionBack(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}
	if err := sess.Back(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}
	return c.JSON(sessionView(sess))
}

func SubmitSessionProof(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}

	var req SubmitProofRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := sess.SubmitProof(services.GormRecordStore{}, req.ReceiptURL, req.Note); err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}

	if sess.LastWrite.Succeeded {
		notifyInstructor(sess, "New enrollment request", "submitted a payment for")
	}
	return c.JSON(sessionView(sess))
}

func RestartSessionPayment(c *fiber.Ctx) error {
	sess, ok := loadSession(c)
	if !ok {
		return nil
	}
	if err := sess.RestartPayment(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err := services.Sessions.Save(c.Context(), sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}
	return c.JSON(sessionView(sess))
}

// loadSession fetches the wizard state for the :sessionId route param. When
// it returns false the response has already been written.
func loadSession(c *fiber.Ctx) (*services.EnrollmentSession, bool) {
	sess, err := services.Sessions.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found or expired"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load session"})
		}
		return nil, false
	}
	return sess, true
}

func notifyInstructor(sess *services.EnrollmentSession, subject, action string) {
	var instructor models.User
	if err := database.DB.First(&instructor, "id = ?", sess.Course.InstructorID).Error; err != nil {
		return
	}
	name := sess.Values[models.FieldFullName]
	go notifications.SendEmail(
		instructor.FullName,
		instructor.Email,
		subject,
		"<h1>"+subject+"</h1><p>"+name+" "+action+" \""+sess.Course.Title+"\". Review it in your dashboard.</p>",
	)
}
