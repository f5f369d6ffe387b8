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

	"elearning_backend/internals/features/finance/purchases/dto"
	"elearning_backend/internals/features/finance/purchases/model"
	"elearning_backend/internals/features/finance/purchases/service"
	helper "elearning_backend/internals/helpers"
)

type PurchaseCodeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPurchaseCodeController(db *gorm.DB) *PurchaseCodeController {
	return &PurchaseCodeController{DB: db, Validator: validator.New()}
}

var codeSortColumns = map[string]string{
	"created_at": "purchase_code_created_at",
	"expires_at": "purchase_code_expires_at",
	"used_at":    "purchase_code_used_at",
}

// POST /api/a/purchase-codes
func (h *PurchaseCodeController) Create(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateCodesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	now := time.Now()
	if err := req.Check(now); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, err := service.CreateCodes(c.UserContext(), h.DB, req.Template(adminID), req.Count)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Printf("[ERROR] create purchase codes: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat kode")
	}
	log.Printf("[INFO] %d purchase codes created by=%s", len(rows), adminID)

	out := make([]dto.CodeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromCode(&rows[i], now))
	}
	return helper.JsonCreated(c, "Kode berhasil dibuat", out)
}

// GET /api/a/purchase-codes?status=active|used|expired&course_id=&kind=course|balance&q=ABCD
func (h *PurchaseCodeController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	now := time.Now()
	q := h.DB.WithContext(c.UserContext()).Model(&model.PurchaseCodeModel{})

	switch strings.ToLower(strings.TrimSpace(c.Query("status"))) {
	case "":
	case "used":
		q = q.Where("purchase_code_used_at IS NOT NULL")
	case "expired":
		q = q.Where("purchase_code_used_at IS NULL AND purchase_code_expires_at <= ?", now)
	case "active":
		q = q.Where("purchase_code_used_at IS NULL AND (purchase_code_expires_at IS NULL OR purchase_code_expires_at > ?)", now)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "status tidak dikenal")
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("kind"))) {
	case "":
	case "course":
		q = q.Where("purchase_code_course_id IS NOT NULL")
	case "balance":
		q = q.Where("purchase_code_amount IS NOT NULL")
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "kind tidak dikenal")
	}
	if s := strings.TrimSpace(c.Query("course_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "course_id tidak valid")
		}
		q = q.Where("purchase_code_course_id = ?", id)
	}
	if s := strings.ToUpper(strings.TrimSpace(c.Query("q"))); s != "" {
		q = q.Where("purchase_code_value LIKE ?", s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kode")
	}
	var rows []model.PurchaseCodeModel
	if err := q.Order(p.OrderClause(codeSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil kode")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if r.PurchaseCodeCourseID != nil {
			ids = append(ids, *r.PurchaseCodeCourseID)
		}
	}
	courses, err := service.CourseTitles(c.UserContext(), h.DB, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	out := make([]dto.CodeResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromCode(&rows[i], now)
		if rows[i].PurchaseCodeCourseID != nil {
			if cm, ok := courses[*rows[i].PurchaseCodeCourseID]; ok {
				r.Course = dto.BriefOf(cm)
			}
		}
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

// DELETE /api/a/purchase-codes/:id (hanya yang belum dipakai)
func (h *PurchaseCodeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := h.DB.WithContext(c.UserContext()).
		Where("purchase_code_id = ? AND purchase_code_used_at IS NULL", id).
		Delete(&model.PurchaseCodeModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus kode")
	}
	if res.RowsAffected == 0 {
		var exists int64
		h.DB.WithContext(c.UserContext()).Model(&model.PurchaseCodeModel{}).
			Where("purchase_code_id = ?", id).Count(&exists)
		if exists > 0 {
			return helper.JsonError(c, fiber.StatusConflict, "Kode sudah dipakai, tidak bisa dihapus")
		}
		return helper.JsonError(c, fiber.StatusNotFound, "Kode tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Kode dihapus", fiber.Map{"purchase_code_id": id})
}
