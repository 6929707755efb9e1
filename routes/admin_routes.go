package routes

import (
	"github.com/masarhq/masar_backend/handlers"
	"github.com/masarhq/masar_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/requests", handlers.ListAllRequests)
	admin.Delete("/requests/:requestId", handlers.AdminDeleteRequest)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/role", handlers.UpdateUserRole)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)
}
