package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/features/courses/chapters/dto"
	"elearning_backend/internals/features/courses/chapters/service"
	courseService "elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
)

type ChapterUserController struct {
	DB *gorm.DB
}

func NewChapterUserController(db *gorm.DB) *ChapterUserController {
	return &ChapterUserController{DB: db}
}

// GET /api/u/chapters/:id
// Konten (video, dokumen, lampiran) hanya untuk yang punya akses; chapter gratis terbuka.
func (h *ChapterUserController) Get(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()

	ch, err := service.FindChapter(ctx, h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	course, err := courseService.FindCourse(ctx, h.DB, ch.ChapterCourseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// draft tidak terlihat oleh non-pengelola
	if !actor.CanManage(course) && (!course.CourseIsPublished || !ch.ChapterIsPublished) {
		return helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
	}

	ok, err := courseService.CanAccessChapter(ctx, h.DB, course, ch.ChapterIsFree, actor)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Beli course ini untuk membuka chapter")
	}

	var done bool
	if err := h.DB.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM user_progress
		  WHERE user_progress_user_id = ? AND user_progress_chapter_id = ? AND user_progress_is_completed = TRUE)`,
		actor.UserID, ch.ChapterID).Scan(&done).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil progress")
	}

	resp := dto.FromModel(ch)
	resp.IsCompleted = &done
	return helper.JsonOK(c, "ok", resp)
}
