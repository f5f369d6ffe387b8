package controller

import (
	"log"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	balanceDTO "elearning_backend/internals/features/finance/balances/dto"
	"elearning_backend/internals/features/finance/purchases/dto"
	"elearning_backend/internals/features/finance/purchases/model"
	"elearning_backend/internals/features/finance/purchases/service"
	helper "elearning_backend/internals/helpers"
)

// GET /api/a/purchases?user_id=&course_id=&source=
func (h *PurchaseController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	q := h.DB.WithContext(c.UserContext()).Model(&model.PurchaseModel{})

	for param, col := range map[string]string{"user_id": "purchase_user_id", "course_id": "purchase_course_id"} {
		if s := strings.TrimSpace(c.Query(param)); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, param+" tidak valid")
			}
			q = q.Where(col+" = ?", id)
		}
	}
	if src := strings.ToUpper(strings.TrimSpace(c.Query("source"))); src != "" {
		if !slices.Contains(model.Sources, src) {
			return helper.JsonError(c, fiber.StatusBadRequest, "source tidak dikenal")
		}
		q = q.Where("purchase_source = ?", src)
	}
	return h.listPurchases(c, q, p)
}

// POST /api/a/purchases
func (h *PurchaseController) Grant(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.GrantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := service.Grant(c.UserContext(), h.DB, req.UserID, req.CourseID)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	log.Printf("[INFO] purchase granted user=%s course=%s by=%s", req.UserID, req.CourseID, adminID)
	return helper.JsonCreated(c, "Akses course diberikan", dto.FromPurchase(row))
}

// DELETE /api/a/purchases/:id?refund=true
func (h *PurchaseController) Revoke(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	refund := c.QueryBool("refund", false)

	row, entry, err := service.Revoke(c.UserContext(), h.DB, id, refund, adminID)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	log.Printf("[INFO] purchase revoked id=%s refund=%v by=%s", id, entry != nil, adminID)

	resp := dto.FromPurchase(row)
	if entry != nil {
		tr := balanceDTO.FromModel(entry)
		resp.Transaction = &tr
	}
	return helper.JsonDeleted(c, "Akses course dicabut", resp)
}
