package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userRoute "elearning_backend/internals/features/users/user/route"
)

// UserRoutes: profil sendiri (/api/u/me)
func UserRoutes(user fiber.Router, db *gorm.DB) {
	userRoute.UserRoutes(user, db)
}

// UserAdminRoutes: manajemen user (/api/a/users)
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	userRoute.UserAdminRoutes(admin, db)
}
