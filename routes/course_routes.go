package routes

import (
	"github.com/masarhq/masar_backend/handlers"
	"github.com/masarhq/masar_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/courses", handlers.ListCourses)
	api.Get("/courses/:courseId", handlers.GetCourse)

	courses := api.Group("/instructor/courses", middleware.Protected(), middleware.InstructorRequired())
	courses.Get("", handlers.ListMyCourses)
	courses.Post("", handlers.CreateCourse)
	courses.Put("/:courseId", handlers.UpdateCourse)
	courses.Delete("/:courseId", handlers.DeleteCourse)
}
