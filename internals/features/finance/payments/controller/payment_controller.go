// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	balanceService "elearning_backend/internals/features/finance/balances/service"
	dto "elearning_backend/internals/features/finance/payments/dto"
	model "elearning_backend/internals/features/finance/payments/model"
	svc "elearning_backend/internals/features/finance/payments/service"
	userModel "elearning_backend/internals/features/users/user/model"
	helper "elearning_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	DB          *gorm.DB
	Validator   *validator.Validate
	TopupExpiry time.Duration // dikirim ke Snap sebagai expiry
}

func NewPaymentController(db *gorm.DB, midtransServerKey string, useProd bool, expiry time.Duration) *PaymentController {
	// init midtrans snap client (sekali saja saat bootstrap)
	svc.InitMidtrans(midtransServerKey, useProd)
	if midtransServerKey == "" {
		log.Printf("[WARN] MIDTRANS_SERVER_KEY kosong, top-up dinonaktifkan")
	}
	return &PaymentController{
		DB:          db,
		Validator:   validator.New(),
		TopupExpiry: expiry,
	}
}

var paymentSortColumns = map[string]string{
	"created_at": "payment_created_at",
	"amount":     "payment_amount",
	"paid_at":    "payment_paid_at",
}

/* =======================================================================
   Handlers: user
======================================================================= */

// POST /api/u/topups
func (h *PaymentController) CreateTopup(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateTopupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	ctx := c.UserContext()
	var u userModel.UserModel
	if err := h.DB.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	p, err := svc.CreateTopup(ctx, h.DB, &u, req.Amount, h.TopupExpiry)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrGatewayDisabled):
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "Top-up sedang tidak tersedia")
		case errors.Is(err, svc.ErrGateway):
			return helper.JsonError(c, fiber.StatusBadGateway, "Gagal menghubungi Midtrans")
		case errors.Is(err, svc.ErrTopupAmountRange), errors.Is(err, svc.ErrTopupNotWhole):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[ERROR] create topup user=%s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat top-up")
	}

	log.Printf("[INFO] topup created order=%s user=%s amount=%s", p.PaymentOrderID, userID, p.PaymentAmount)
	return helper.JsonCreated(c, "Top-up dibuat, lanjutkan pembayaran", dto.FromModel(p))
}

// GET /api/u/topups?status=pending
func (h *PaymentController) MyTopups(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	q := h.DB.WithContext(c.UserContext()).Model(&model.PaymentModel{}).
		Where("payment_user_id = ?", userID)
	return h.list(c, q, helper.DefaultOpts)
}

// GET /api/u/topups/:id
func (h *PaymentController) GetTopup(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := svc.FindUserPayment(c.UserContext(), h.DB, userID, id)
	if err != nil {
		if errors.Is(err, svc.ErrPaymentNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Top-up tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil top-up")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(p))
}

/* =======================================================================
   Handlers: admin
======================================================================= */

// GET /api/a/payments?status=paid&user_id=
func (h *PaymentController) List(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).Model(&model.PaymentModel{})
	if s := strings.TrimSpace(c.Query("user_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
		}
		q = q.Where("payment_user_id = ?", id)
	}
	return h.list(c, q, helper.AdminOpts)
}

// GET /api/a/payments/:id/events
func (h *PaymentController) Events(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []model.PaymentGatewayEventModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("gateway_event_payment_id = ?", id).
		Order("gateway_event_received_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}
	return helper.JsonOK(c, "ok", rows)
}

func (h *PaymentController) list(c *fiber.Ctx, q *gorm.DB, opts helper.Options) error {
	p := helper.ParseFiber(c, "created_at", "desc", opts)
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		if !model.PaymentStatus(st).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak dikenal")
		}
		q = q.Where("payment_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung top-up")
	}
	var rows []model.PaymentModel
	if err := q.Order(p.OrderClause(paymentSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil top-up")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), p.Pagination(total))
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

// POST /api/public/payments/midtrans/webhook
func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	// 1) Parse payload
	var notif svc.Notification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	// 2) Verify signature = SHA512(order_id + status_code + gross_amount + ServerKey)
	if !svc.VerifySignature(notif) {
		log.Printf("[WARN] midtrans webhook invalid signature order=%s ip=%s", notif.OrderID, c.IP())
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	// 3) Simpan gateway event
	ctx := c.UserContext()
	headers := map[string]string{}
	for k, v := range c.GetReqHeaders() { // v: []string
		headers[k] = strings.Join(v, ",")
	}
	ev, err := svc.LogGatewayEvent(ctx, h.DB, notif, headers, c.Body())
	if err != nil {
		log.Printf("[ERROR] log gateway event order=%s: %v", notif.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal menyimpan event")
	}

	// 4) Terapkan status (+ kredit saldo sekali)
	out, err := svc.ApplyNotification(ctx, h.DB, notif, time.Now())
	var paymentID *uuid.UUID
	if out != nil && out.Payment != nil {
		paymentID = &out.Payment.PaymentID
	}
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrPaymentNotFound):
			// balas 200 agar Midtrans tidak retry terus
			_ = svc.MarkGatewayEvent(ctx, h.DB, ev.GatewayEventID, nil, model.GatewayEventStatusIgnored, "payment not found")
			return helper.JsonOK(c, "ignored", fiber.Map{"status": "ignored", "reason": "payment not found"})
		case errors.Is(err, svc.ErrAmountMismatch):
			log.Printf("[WARN] midtrans gross_amount mismatch order=%s gross=%s", notif.OrderID, notif.GrossAmount)
			_ = svc.MarkGatewayEvent(ctx, h.DB, ev.GatewayEventID, paymentID, model.GatewayEventStatusFailed, err.Error())
			return helper.JsonOK(c, "rejected", fiber.Map{"status": "rejected", "reason": "amount mismatch"})
		case errors.Is(err, balanceService.ErrUserNotFound):
			_ = svc.MarkGatewayEvent(ctx, h.DB, ev.GatewayEventID, paymentID, model.GatewayEventStatusFailed, err.Error())
			return helper.JsonOK(c, "rejected", fiber.Map{"status": "rejected", "reason": "user not found"})
		}
		// error DB: 500 supaya Midtrans mengirim ulang
		log.Printf("[ERROR] apply midtrans notif order=%s: %v", notif.OrderID, err)
		_ = svc.MarkGatewayEvent(ctx, h.DB, ev.GatewayEventID, paymentID, model.GatewayEventStatusFailed, err.Error())
		return helper.JsonError(c, fiber.StatusInternalServerError, "update payment failed")
	}

	status := model.GatewayEventStatusSuccess
	if out.Ignored {
		status = model.GatewayEventStatusIgnored
	}
	_ = svc.MarkGatewayEvent(ctx, h.DB, ev.GatewayEventID, paymentID, status, "")

	if out.Credited {
		log.Printf("[INFO] topup credited order=%s user=%s amount=%s", out.Payment.PaymentOrderID, out.Payment.PaymentUserID, out.Payment.PaymentAmount)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"status":             "ok",
		"payment_id":         out.Payment.PaymentID,
		"payment_status":     out.Payment.PaymentStatus,
		"previous_status":    out.Previous,
		"transaction_status": notif.TransactionStatus,
		"fraud_status":       notif.FraudStatus,
		"credited":           out.Credited,
	})
}
