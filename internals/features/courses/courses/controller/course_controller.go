package controller

import (
	"context"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	contentService "elearning_backend/internals/features/courses/contents/service"
	"elearning_backend/internals/features/courses/courses/dto"
	"elearning_backend/internals/features/courses/courses/model"
	"elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
	helperOSS "elearning_backend/internals/helpers/oss"
)

// upload ke OSS bisa lebih lama dari timeout request biasa
const uploadTimeout = 2 * time.Minute

type CourseController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Blob      helperOSS.BlobService
}

func NewCourseController(db *gorm.DB, blob helperOSS.BlobService) *CourseController {
	return &CourseController{DB: db, Validator: validator.New(), Blob: blob}
}

var courseSortColumns = map[string]string{
	"created_at": "course_created_at",
	"updated_at": "course_updated_at",
	"title":      "course_title",
	"price":      "course_price",
}

/* =========================================================
   CREATE - POST /api/t/courses
   Body: JSON, atau multipart (field + file "image")
========================================================= */

func (h *CourseController) Create(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	teacherID := actor.UserID
	if req.CourseTeacherID != nil && *req.CourseTeacherID != actor.UserID {
		if !actor.IsAdmin() {
			return helper.JsonError(c, fiber.StatusForbidden, "Hanya admin yang boleh membuat course untuk teacher lain")
		}
		if err := h.ensureTeacher(c, *req.CourseTeacherID); err != nil {
			return helper.FromFiberError(c, err)
		}
		teacherID = *req.CourseTeacherID
	}

	slugSrc := req.CourseTitle
	if req.CourseSlug != nil {
		slugSrc = *req.CourseSlug
	}
	ctx := c.UserContext()
	slug, err := service.UniqueCourseSlug(ctx, h.DB, slugSrc, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat slug")
	}

	m := req.ToModel(teacherID, slug)
	if err := h.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Slug sudah digunakan")
		}
		log.Printf("[ERROR] create course: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat course")
	}

	// gambar opsional di request yang sama
	if helperOSS.IsMultipart(c) {
		if fh, _ := helperOSS.GetFormFile(c, "image", "file"); fh != nil {
			if err := h.storeImage(m, fh); err != nil {
				log.Printf("[WARN] course %s dibuat tanpa gambar: %v", m.CourseID, err)
			}
		}
	}

	log.Printf("[INFO] course created id=%s teacher=%s", m.CourseID, teacherID)
	return helper.JsonCreated(c, "Course berhasil dibuat", dto.FromModel(m))
}

func (h *CourseController) ensureTeacher(c *fiber.Ctx, userID uuid.UUID) error {
	var role string
	res := h.DB.WithContext(c.UserContext()).
		Table("users").Select("role").
		Where("id = ? AND deleted_at IS NULL", userID).
		Limit(1).Scan(&role)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek teacher")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
	}
	if !constants.IsTeacherOrAdmin(role) {
		return fiber.NewError(fiber.StatusBadRequest, "User tersebut bukan teacher")
	}
	return nil
}

/* =========================================================
   LIST - GET /api/t/courses
   Teacher: course miliknya. Admin: semua (opsional ?teacher_id=).
========================================================= */

func (h *CourseController) List(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	ctx := c.UserContext()

	q := h.DB.WithContext(ctx).Model(&model.CourseModel{})
	if actor.IsAdmin() {
		if tid := strings.TrimSpace(c.Query("teacher_id")); tid != "" {
			id, err := uuid.Parse(tid)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "teacher_id tidak valid")
			}
			q = q.Where("course_teacher_id = ?", id)
		}
	} else {
		q = q.Where("course_teacher_id = ?", actor.UserID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("course_title ILIKE ?", "%"+s+"%")
	}
	if v := c.Query("is_published"); v != "" {
		q = q.Where("course_is_published = ?", v == "true" || v == "1")
	}

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

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseTeacherID)
	}
	teachers, err := service.TeacherBriefs(ctx, h.DB, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil teacher")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, teachers), p.Pagination(total))
}

/* =========================================================
   DETAIL - GET /api/t/courses/:id (dengan urutan konten)
========================================================= */

func (h *CourseController) Get(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	m, err := service.FindManagedCourse(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	items, err := contentService.LoadItems(h.DB.WithContext(ctx), m.CourseID, false)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil konten course")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"course":   dto.FromModel(m),
		"contents": items,
	})
}

/* =========================================================
   PATCH - PATCH /api/t/courses/:id
========================================================= */

func (h *CourseController) Update(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates, err := req.ToUpdates()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	m, err := service.FindManagedCourse(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if req.CourseSlug != nil && strings.TrimSpace(*req.CourseSlug) != "" {
		base := helper.Slugify(*req.CourseSlug, 200)
		if !strings.EqualFold(base, m.CourseSlug) {
			slug, err := service.UniqueCourseSlug(ctx, h.DB, base, &m.CourseID)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat slug")
			}
			updates["course_slug"] = slug
		}
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := h.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Slug sudah digunakan")
		}
		log.Printf("[ERROR] update course %s: %v", m.CourseID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui course")
	}
	fresh, err := service.FindCourse(ctx, h.DB, m.CourseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Course berhasil diperbarui", dto.FromModel(fresh))
}

/* =========================================================
   PUBLISH - PATCH /api/t/courses/:id/publish
   Publish butuh minimal 1 chapter yang sudah publish.
========================================================= */

func (h *CourseController) Publish(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	m, err := service.FindManagedCourse(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if *req.IsPublished {
		var n int64
		if err := h.DB.WithContext(ctx).Table("chapters").
			Where("chapter_course_id = ? AND chapter_is_published = TRUE", m.CourseID).
			Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek chapter")
		}
		if n == 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Course butuh minimal 1 chapter yang sudah dipublish")
		}
	}

	if err := h.DB.WithContext(ctx).Model(m).Update("course_is_published", *req.IsPublished).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal update status publish")
	}
	m.CourseIsPublished = *req.IsPublished
	return helper.JsonUpdated(c, "Status publish diperbarui", dto.FromModel(m))
}

/* =========================================================
   DELETE (soft) - DELETE /api/t/courses/:id
   Baris dan file dihapus permanen oleh trash reaper setelah retensi.
========================================================= */

func (h *CourseController) Delete(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	m, err := service.FindManagedCourse(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.WithContext(ctx).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus course")
	}
	log.Printf("[INFO] course soft-deleted id=%s by=%s", m.CourseID, actor.UserID)
	return helper.JsonDeleted(c, "Course berhasil dihapus", fiber.Map{"course_id": m.CourseID})
}

/* =========================================================
   IMAGE - POST /api/t/courses/:id/image (multipart "image"/"file")
   Gambar lama dipindah ke spam/, bukan dihapus.
========================================================= */

func (h *CourseController) UploadImage(c *fiber.Ctx) error {
	actor, err := service.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := helperOSS.GetFormFile(c, "image", "file")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File gambar wajib diisi")
	}

	m, err := service.FindManagedCourse(c.UserContext(), h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.storeImage(m, fh); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Gambar course diperbarui", dto.FromModel(m))
}

// storeImage: upload WebP + thumbnail, update kolom, pindahkan gambar lama ke spam.
func (h *CourseController) storeImage(m *model.CourseModel, fh *multipart.FileHeader) error {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	up, err := h.Blob.UploadImage(ctx, helperOSS.CourseImageDir(m.CourseID), fh, true)
	if err != nil {
		return err
	}

	oldImage, oldThumb := m.CourseImageURL, m.CourseThumbnailURL
	updates := map[string]any{"course_image_url": up.URL}
	if up.ThumbnailURL != "" {
		updates["course_thumbnail_url"] = up.ThumbnailURL
	} else {
		updates["course_thumbnail_url"] = nil
	}
	if err := h.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		// rollback object yang baru diupload
		_ = h.Blob.DeleteByPublicURL(ctx, up.URL)
		if up.ThumbnailURL != "" {
			_ = h.Blob.DeleteByPublicURL(ctx, up.ThumbnailURL)
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan URL gambar")
	}
	m.CourseImageURL = &up.URL
	m.CourseThumbnailURL = nil
	if up.ThumbnailURL != "" {
		m.CourseThumbnailURL = &up.ThumbnailURL
	}

	for _, old := range []*string{oldImage, oldThumb} {
		if old == nil || *old == "" {
			continue
		}
		if _, err := h.Blob.MoveToSpam(ctx, *old); err != nil {
			log.Printf("[WARN] move to spam %s: %v", *old, err)
		}
	}
	return nil
}
