package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	contentController "elearning_backend/internals/features/courses/contents/controller"
)

// ContentTeacherRoutes: /api/t/courses/:id/contents
func ContentTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	ctrl := contentController.NewContentController(db)

	teacher.Get("/courses/:id/contents", ctrl.List)
	teacher.Put("/courses/:id/contents/reorder", ctrl.Reorder)
}
