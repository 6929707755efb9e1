package routes

import (
	"github.com/masarhq/masar_backend/handlers"
	"github.com/masarhq/masar_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func MarketerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	instructor := api.Group("/instructor", middleware.Protected(), middleware.InstructorRequired())
	instructor.Get("/requests", handlers.ListInstructorRequests)
	instructor.Patch("/requests/:requestId/status", handlers.UpdateRequestStatus)
	instructor.Get("/assignments", handlers.ListInstructorAssignments)
	instructor.Post("/assignments", handlers.CreateAssignment)
	instructor.Delete("/assignments/:assignmentId", handlers.DeleteAssignment)

	marketer := api.Group("/marketer", middleware.Protected(), middleware.MarketerRequired())
	marketer.Get("/assignments", handlers.ListMyAssignments)
	marketer.Get("/referrals", handlers.ListMyReferrals)
	marketer.Get("/earnings", handlers.GetMyEarnings)
}
