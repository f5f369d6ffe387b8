package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	contentService "elearning_backend/internals/features/courses/contents/service"
	"elearning_backend/internals/features/courses/courses/dto"
	"elearning_backend/internals/features/courses/courses/model"
	"elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
)

type CoursePublicController struct {
	DB *gorm.DB
}

func NewCoursePublicController(db *gorm.DB) *CoursePublicController {
	return &CoursePublicController{DB: db}
}

// GET /api/public/courses?q=&grade=&division=&curriculum=&teacher_id=&free=&sort_by=&order=
func (h *CoursePublicController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	f := service.CatalogFilter{
		Q:          c.Query("q"),
		Grade:      strings.TrimSpace(c.Query("grade")),
		Division:   strings.TrimSpace(c.Query("division")),
		Curriculum: strings.TrimSpace(c.Query("curriculum")),
	}
	if tid := strings.TrimSpace(c.Query("teacher_id")); tid != "" {
		id, err := uuid.Parse(tid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "teacher_id tidak valid")
		}
		f.TeacherID = id
	}
	if v := c.Query("free"); v != "" {
		b := v == "true" || v == "1"
		f.Free = &b
	}

	ctx := c.UserContext()
	q := service.ApplyCatalogFilters(
		h.DB.WithContext(ctx).Model(&model.CourseModel{}).Where("course_is_published = TRUE"), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung course")
	}
	var rows []model.CourseModel
	if err := q.Order(p.OrderClause(courseSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	resp, err := h.decorate(c, rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pelengkap course")
	}
	return helper.JsonList(c, "ok", resp, p.Pagination(total))
}

// GET /api/public/courses/:slug: detail + outline (hanya item publish).
// URL video/dokumen tidak ikut; konten diambil lewat endpoint chapter yang cek akses.
func (h *CoursePublicController) Detail(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "slug wajib diisi")
	}
	ctx := c.UserContext()
	actor := service.OptionalActor(c)

	var m model.CourseModel
	if err := h.DB.WithContext(ctx).
		Where("LOWER(course_slug) = LOWER(?)", slug).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}
	// draft hanya terlihat oleh pemilik/admin
	if !m.CourseIsPublished && !actor.CanManage(&m) {
		return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
	}

	items, err := contentService.LoadItems(h.DB.WithContext(ctx), m.CourseID, !actor.CanManage(&m))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil outline")
	}
	resp, err := h.decorate(c, []model.CourseModel{m})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pelengkap course")
	}

	hasAccess, err := service.HasCourseAccess(ctx, h.DB, &m, actor)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek akses")
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"course":     resp[0],
		"outline":    items,
		"has_access": hasAccess,
	})
}

// decorate: teacher brief + is_purchased (kalau login).
func (h *CoursePublicController) decorate(c *fiber.Ctx, rows []model.CourseModel) ([]dto.CourseResponse, error) {
	ctx := c.UserContext()
	teacherIDs := make([]uuid.UUID, 0, len(rows))
	courseIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		teacherIDs = append(teacherIDs, r.CourseTeacherID)
		courseIDs = append(courseIDs, r.CourseID)
	}
	teachers, err := service.TeacherBriefs(ctx, h.DB, teacherIDs)
	if err != nil {
		return nil, err
	}
	out := dto.FromModels(rows, teachers)

	if uid, ok := helper.OptionalUserID(c); ok {
		owned, err := service.PurchasedSet(ctx, h.DB, uid, courseIDs)
		if err != nil {
			return nil, err
		}
		for i := range out {
			v := owned[out[i].CourseID]
			out[i].IsPurchased = &v
		}
	}
	return out, nil
}
