package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	balanceController "elearning_backend/internals/features/finance/balances/controller"
)

// BalanceUserRoutes: /api/u/balance
func BalanceUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := balanceController.NewBalanceController(db)

	user.Get("/balance", ctrl.MyBalance)
	user.Get("/balance/transactions", ctrl.MyTransactions)
}

// BalanceAdminRoutes: /api/a/users/:id/balance
func BalanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := balanceController.NewBalanceController(db)

	admin.Post("/users/:id/balance", ctrl.Adjust)
	admin.Get("/users/:id/balance/transactions", ctrl.UserTransactions)
}
