package controller

import (
	"errors"
	"log"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/features/finance/balances/dto"
	"elearning_backend/internals/features/finance/balances/model"
	"elearning_backend/internals/features/finance/balances/service"
	helper "elearning_backend/internals/helpers"
)

type BalanceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewBalanceController(db *gorm.DB) *BalanceController {
	return &BalanceController{DB: db, Validator: validator.New()}
}

var txSortColumns = map[string]string{
	"created_at": "balance_transaction_created_at",
	"amount":     "balance_transaction_amount",
}

/* ===== USER ===== */

// GET /api/u/balance
func (h *BalanceController) MyBalance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	db := h.DB.WithContext(c.UserContext())

	bal, err := service.CurrentBalance(db, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil saldo")
	}
	var recent []model.BalanceTransactionModel
	if err := db.Where("balance_transaction_user_id = ?", userID).
		Order("balance_transaction_created_at DESC").
		Limit(10).Find(&recent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil transaksi")
	}
	return helper.JsonOK(c, "ok", dto.BalanceResponse{Balance: bal, Recent: dto.FromModels(recent)})
}

// GET /api/u/balance/transactions?type=PURCHASE&page=1
func (h *BalanceController) MyTransactions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return h.listTransactions(c, userID.String(), helper.DefaultOpts)
}

/* ===== ADMIN ===== */

// GET /api/a/users/:id/balance/transactions
func (h *BalanceController) UserTransactions(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return h.listTransactions(c, id.String(), helper.AdminOpts)
}

// POST /api/a/users/:id/balance
func (h *BalanceController) Adjust(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.AdjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Check(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var row *model.BalanceTransactionModel
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var e error
		row, e = service.Apply(tx, service.Entry{
			UserID:    userID,
			Amount:    req.Amount,
			Type:      req.TxType(),
			Reference: "admin:" + adminID.String(),
			Note:      req.Note,
			CreatedBy: &adminID,
		})
		return e
	})
	if err != nil {
		return RespondLedgerError(c, err)
	}

	log.Printf("[INFO] balance adjust user=%s amount=%s by=%s", userID, req.Amount, adminID)
	return helper.JsonCreated(c, "Saldo diperbarui", dto.FromModel(row))
}

/* ===== helpers ===== */

func (h *BalanceController) listTransactions(c *fiber.Ctx, userID string, opts helper.Options) error {
	p := helper.ParseFiber(c, "created_at", "desc", opts)
	q := h.DB.WithContext(c.UserContext()).Model(&model.BalanceTransactionModel{}).
		Where("balance_transaction_user_id = ?", userID)
	if t := strings.ToUpper(strings.TrimSpace(c.Query("type"))); t != "" {
		if !slices.Contains(model.TxTypes, t) {
			return helper.JsonError(c, fiber.StatusBadRequest, "type tidak dikenal")
		}
		q = q.Where("balance_transaction_type = ?", t)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung transaksi")
	}
	var rows []model.BalanceTransactionModel
	if err := q.Order(p.OrderClause(txSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil transaksi")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), p.Pagination(total))
}

// RespondLedgerError: map error ledger ke HTTP. Dipakai juga oleh purchases.
func RespondLedgerError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, service.ErrInsufficientBalance):
		return helper.JsonError(c, fiber.StatusPaymentRequired, "Saldo tidak mencukupi")
	case errors.Is(err, service.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	case errors.Is(err, service.ErrZeroAmount):
		return helper.JsonError(c, fiber.StatusBadRequest, "Nominal tidak boleh 0")
	}
	log.Printf("[ERROR] ledger: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses saldo")
}
