package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressController "elearning_backend/internals/features/courses/progress/controller"
)

// ProgressUserRoutes: /api/u
func ProgressUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := progressController.NewProgressController(db)

	user.Post("/chapters/:id/complete", ctrl.Complete)
	user.Delete("/chapters/:id/complete", ctrl.Uncomplete)
	user.Get("/courses/:id/progress", ctrl.CourseProgress)
}
