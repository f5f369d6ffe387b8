package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	userController "elearning_backend/internals/features/users/user/controller"
	authMiddleware "elearning_backend/internals/middlewares/auth"
)

// UserRoutes: /api/u/me
func UserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	user.Get("/me", ctrl.GetMe)
	user.Patch("/me", ctrl.UpdateMe)
}

// UserAdminRoutes: /api/a/users
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	users := admin.Group("/users",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("User Management"), constants.AdminOnly),
	)
	users.Get("/", ctrl.ListUsers)
	users.Get("/:id", ctrl.GetUser)
	users.Patch("/:id/role", ctrl.UpdateRole)
	users.Patch("/:id/active", ctrl.UpdateActive)
}
