// file: internals/features/finance/payments/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	paymentsController "elearning_backend/internals/features/finance/payments/controller"
	"elearning_backend/internals/features/finance/payments/scheduler"
)

func newController(db *gorm.DB) *paymentsController.PaymentController {
	return paymentsController.NewPaymentController(
		db,
		configs.GetEnv("MIDTRANS_SERVER_KEY", ""),
		configs.GetEnvBool("MIDTRANS_USE_PROD", false),
		scheduler.TopupExpiry(),
	)
}

// PaymentPublicRoutes: /api/public/payments (webhook tanpa JWT)
func PaymentPublicRoutes(public fiber.Router, db *gorm.DB) {
	h := newController(db)
	public.Post("/payments/midtrans/webhook", h.MidtransWebhook)
}

// PaymentUserRoutes: /api/u/topups
func PaymentUserRoutes(user fiber.Router, db *gorm.DB) {
	h := newController(db)

	topups := user.Group("/topups")
	topups.Post("/", h.CreateTopup)
	topups.Get("/", h.MyTopups)
	topups.Get("/:id", h.GetTopup)
}

// PaymentAdminRoutes: /api/a/payments
func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := newController(db)

	admin.Get("/payments", h.List)
	admin.Get("/payments/:id/events", h.Events)
}
