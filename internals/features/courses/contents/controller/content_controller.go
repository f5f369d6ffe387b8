package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/features/courses/contents/dto"
	"elearning_backend/internals/features/courses/contents/service"
	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
)

type ContentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewContentController(db *gorm.DB) *ContentController {
	return &ContentController{DB: db, Validator: validator.New()}
}

// GET /api/t/courses/:id/contents
func (h *ContentController) List(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	course, err := courseService.FindManagedCourse(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	items, err := service.LoadItems(h.DB.WithContext(ctx), course.CourseID, false)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil konten")
	}
	return helper.JsonOK(c, "ok", items)
}

// PUT /api/t/courses/:id/contents/reorder
// Body: {"items":[{"type":"chapter","id":"..."},{"type":"quiz","id":"..."}]}
func (h *ContentController) Reorder(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var items []service.Item
	err = service.WithCourseLock(c.UserContext(), h.DB, id, func(tx *gorm.DB, course *courseModel.CourseModel) error {
		if !actor.CanManage(course) {
			return fiber.NewError(fiber.StatusForbidden, "Anda bukan pemilik course ini")
		}
		var err error
		items, err = service.Reorder(tx, course.CourseID, req.Items)
		return err
	})
	if err != nil {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			log.Printf("[ERROR] reorder course %s: %v", id, err)
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Urutan konten diperbarui", items)
}
