package routes

import (
	"github.com/masarhq/masar_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

// EnrollmentRoutes are public: learners enroll without an account, the way
// the marketplace client works.
func EnrollmentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/referral/resolve", handlers.ResolveReferralLink)

	sessions := api.Group("/enrollment/sessions")
	sessions.Post("", handlers.StartEnrollmentSession)
	sessions.Get("/:sessionId", handlers.GetEnrollmentSession)
	sessions.Post("/:sessionId/details", handlers.SubmitSessionDetails)
	sessions.Post("/:sessionId/payment-method", handlers.ChooseSessionPaymentMethod)
	sessions.Post("/:sessionId/confirm", handlers.ConfirmSessionInstructions)
	sessions.Post("/:sessionId/back", handlers.SessionBack)
	sessions.Post("/:sessionId/proof", handlers.SubmitSessionProof)
	sessions.Post("/:sessionId/restart", handlers.RestartSessionPayment)
}
