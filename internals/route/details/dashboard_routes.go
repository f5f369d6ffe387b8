package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardRoute "elearning_backend/internals/features/dashboards/route"
)

func DashboardRoutes(user, teacher, admin fiber.Router, db *gorm.DB) {
	dashboardRoute.DashboardUserRoutes(user, db)
	dashboardRoute.DashboardTeacherRoutes(teacher, db)
	dashboardRoute.DashboardAdminRoutes(admin, db)
}
