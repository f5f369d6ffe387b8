package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardController "elearning_backend/internals/features/dashboards/controller"
)

func DashboardUserRoutes(user fiber.Router, db *gorm.DB) {
	user.Get("/dashboard", dashboardController.NewDashboardController(db).User)
}

func DashboardTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	teacher.Get("/dashboard", dashboardController.NewDashboardController(db).Teacher)
}

func DashboardAdminRoutes(admin fiber.Router, db *gorm.DB) {
	admin.Get("/dashboard", dashboardController.NewDashboardController(db).Admin)
}
