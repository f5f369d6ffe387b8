package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	purchaseController "elearning_backend/internals/features/finance/purchases/controller"
	rateLimiter "elearning_backend/internals/middlewares"
)

// PurchaseUserRoutes: /api/u
func PurchaseUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := purchaseController.NewPurchaseController(db)

	user.Post("/courses/:id/purchase", ctrl.Buy)
	user.Get("/purchases", ctrl.MyPurchases)
	user.Post("/purchase-codes/redeem", rateLimiter.RedeemCodeRateLimiter(), ctrl.Redeem)
}

// PurchaseAdminRoutes: /api/a
func PurchaseAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := purchaseController.NewPurchaseController(db)
	codes := purchaseController.NewPurchaseCodeController(db)

	admin.Get("/purchases", ctrl.List)
	admin.Post("/purchases", ctrl.Grant)
	admin.Delete("/purchases/:id", ctrl.Revoke)

	admin.Post("/purchase-codes", codes.Create)
	admin.Get("/purchase-codes", codes.List)
	admin.Delete("/purchase-codes/:id", codes.Delete)
}
