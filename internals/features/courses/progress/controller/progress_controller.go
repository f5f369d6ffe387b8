package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	chapterService "elearning_backend/internals/features/courses/chapters/service"
	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/courses/progress/service"
	helper "elearning_backend/internals/helpers"
)

type ProgressController struct {
	DB *gorm.DB
}

func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{DB: db}
}

// POST /api/u/chapters/:id/complete
func (h *ProgressController) Complete(c *fiber.Ctx) error {
	return h.mark(c, true)
}

// DELETE /api/u/chapters/:id/complete
func (h *ProgressController) Uncomplete(c *fiber.Ctx) error {
	return h.mark(c, false)
}

func (h *ProgressController) mark(c *fiber.Ctx, done bool) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()

	ch, err := chapterService.FindChapter(ctx, h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	course, err := courseService.FindCourse(ctx, h.DB, ch.ChapterCourseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !course.CourseIsPublished || !ch.ChapterIsPublished {
		return helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
	}
	ok, err := courseService.CanAccessChapter(ctx, h.DB, course, ch.ChapterIsFree, actor)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Beli course ini untuk membuka chapter")
	}

	if err := service.MarkChapter(ctx, h.DB, actor.UserID, course.CourseID, ch.ChapterID, done); err != nil {
		log.Printf("[ERROR] mark chapter %s user=%s: %v", ch.ChapterID, actor.UserID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan progress")
	}

	prog, err := service.GetCourseProgress(ctx, h.DB, actor.UserID, course.CourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung progress")
	}
	msg := "Chapter ditandai selesai"
	if !done {
		msg = "Tanda selesai dihapus"
	}
	return helper.JsonUpdated(c, msg, prog)
}

// GET /api/u/courses/:id/progress
func (h *ProgressController) CourseProgress(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	course, err := courseService.FindCourse(ctx, h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	prog, err := service.GetCourseProgress(ctx, h.DB, actor.UserID, course.CourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung progress")
	}
	results, err := service.RecentResults(ctx, h.DB, service.ResultFilter{
		UserID:   &actor.UserID,
		CourseID: &course.CourseID,
	}, 5)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil hasil quiz")
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"progress":            prog,
		"recent_quiz_results": results,
	})
}
