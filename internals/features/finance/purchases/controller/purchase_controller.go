package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseService "elearning_backend/internals/features/courses/courses/service"
	balanceController "elearning_backend/internals/features/finance/balances/controller"
	balanceDTO "elearning_backend/internals/features/finance/balances/dto"
	"elearning_backend/internals/features/finance/purchases/dto"
	"elearning_backend/internals/features/finance/purchases/model"
	"elearning_backend/internals/features/finance/purchases/service"
	helper "elearning_backend/internals/helpers"
)

type PurchaseController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPurchaseController(db *gorm.DB) *PurchaseController {
	return &PurchaseController{DB: db, Validator: validator.New()}
}

var purchaseSortColumns = map[string]string{
	"created_at": "purchase_created_at",
	"amount":     "purchase_amount",
}

// POST /api/u/courses/:id/purchase
func (h *PurchaseController) Buy(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p, entry, err := service.Buy(c.UserContext(), h.DB, actor, courseID)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	log.Printf("[INFO] purchase user=%s course=%s source=%s amount=%s", actor.UserID, courseID, p.PurchaseSource, p.PurchaseAmount)

	resp := dto.FromPurchase(p)
	if entry != nil {
		tr := balanceDTO.FromModel(entry)
		resp.Transaction = &tr
	}
	return helper.JsonCreated(c, "Course berhasil dibeli", resp)
}

// GET /api/u/purchases
func (h *PurchaseController) MyPurchases(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	q := h.DB.WithContext(c.UserContext()).Model(&model.PurchaseModel{}).
		Where("purchase_user_id = ?", userID)
	return h.listPurchases(c, q, p)
}

// POST /api/u/purchase-codes/redeem
func (h *PurchaseController) Redeem(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := service.Redeem(c.UserContext(), h.DB, userID, req.Code, time.Now())
	if err != nil {
		return respondPurchaseError(c, err)
	}
	log.Printf("[INFO] code redeemed code=%s user=%s", res.Code.PurchaseCodeValue, userID)

	out := dto.RedeemResponse{Code: res.Code.PurchaseCodeValue}
	if res.Purchase != nil {
		pr := dto.FromPurchase(res.Purchase)
		out.Kind = "course"
		out.Purchase = &pr
		return helper.JsonCreated(c, "Kode berhasil dipakai, course terbuka", out)
	}
	tr := balanceDTO.FromModel(res.Transaction)
	out.Kind = "balance"
	out.Transaction = &tr
	return helper.JsonCreated(c, "Kode berhasil dipakai, saldo bertambah", out)
}

/* ===== helpers ===== */

func (h *PurchaseController) listPurchases(c *fiber.Ctx, q *gorm.DB, p helper.Params) error {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung purchase")
	}
	var rows []model.PurchaseModel
	if err := q.Order(p.OrderClause(purchaseSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil purchase")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PurchaseCourseID)
	}
	courses, err := service.CourseTitles(c.UserContext(), h.DB, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	out := make([]dto.PurchaseResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromPurchase(&rows[i])
		if cm, ok := courses[rows[i].PurchaseCourseID]; ok {
			r.Course = dto.BriefOf(cm)
		}
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

func respondPurchaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAlreadyOwned):
		return helper.JsonError(c, fiber.StatusConflict, "Course sudah dimiliki")
	case errors.Is(err, service.ErrCourseNotReady):
		return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
	case errors.Is(err, service.ErrCodeFormat):
		return helper.JsonError(c, fiber.StatusBadRequest, "Format kode tidak valid")
	case errors.Is(err, service.ErrCodeNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Kode tidak ditemukan")
	case errors.Is(err, service.ErrCodeUsed):
		return helper.JsonError(c, fiber.StatusConflict, "Kode sudah dipakai")
	case errors.Is(err, service.ErrCodeExpired):
		return helper.JsonError(c, fiber.StatusGone, "Kode sudah kedaluwarsa")
	}
	return balanceController.RespondLedgerError(c, err)
}
