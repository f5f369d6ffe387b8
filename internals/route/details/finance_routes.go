// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	balanceRoute "elearning_backend/internals/features/finance/balances/route"
	paymentRoute "elearning_backend/internals/features/finance/payments/route"
	purchaseRoute "elearning_backend/internals/features/finance/purchases/route"
)

func FinancePublicRoutes(public fiber.Router, db *gorm.DB) {
	paymentRoute.PaymentPublicRoutes(public, db)
}

func FinanceUserRoutes(user fiber.Router, db *gorm.DB) {
	balanceRoute.BalanceUserRoutes(user, db)
	purchaseRoute.PurchaseUserRoutes(user, db)
	paymentRoute.PaymentUserRoutes(user, db)
}

func FinanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	balanceRoute.BalanceAdminRoutes(admin, db)
	purchaseRoute.PurchaseAdminRoutes(admin, db)
	paymentRoute.PaymentAdminRoutes(admin, db)
}
