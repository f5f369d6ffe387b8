package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	contentService "elearning_backend/internals/features/courses/contents/service"
	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/courses/quizzes/dto"
	"elearning_backend/internals/features/courses/quizzes/model"
	"elearning_backend/internals/features/courses/quizzes/service"
	helper "elearning_backend/internals/helpers"
)

type QuizController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewQuizController(db *gorm.DB) *QuizController {
	return &QuizController{DB: db, Validator: validator.New()}
}

func respondTxError(c *fiber.Ctx, err error, what string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.FromFiberError(c, err)
	}
	log.Printf("[ERROR] %s: %v", what, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal "+what)
}

/* =========================================================
   CREATE - POST /api/t/courses/:id/quizzes (append di akhir urutan)
========================================================= */

func (h *QuizController) Create(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m *model.QuizModel
	err = contentService.WithCourseLock(c.UserContext(), h.DB, courseID, func(tx *gorm.DB, course *courseModel.CourseModel) error {
		if !actor.CanManage(course) {
			return fiber.NewError(fiber.StatusForbidden, "Anda bukan pemilik course ini")
		}
		pos, err := contentService.NextPosition(tx, course.CourseID)
		if err != nil {
			return err
		}
		m = req.ToModel(course.CourseID, pos)
		return tx.Create(m).Error
	})
	if err != nil {
		return respondTxError(c, err, "membuat quiz")
	}

	log.Printf("[INFO] quiz created id=%s course=%s pos=%d", m.QuizID, courseID, m.QuizPosition)
	return helper.JsonCreated(c, "Quiz berhasil dibuat", dto.FromModel(m))
}

/* =========================================================
   DETAIL - GET /api/t/quizzes/:id (dengan soal + kunci)
========================================================= */

func (h *QuizController) Get(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	q, _, err := service.FindManagedQuiz(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	questions, err := service.LoadQuestions(h.DB.WithContext(ctx), q.QuizID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}

	resp := dto.FromModel(q)
	n, total := len(questions), 0
	for _, qq := range questions {
		total += qq.QuizQuestionPoints
	}
	resp.QuestionCount, resp.TotalPoints = &n, &total
	return helper.JsonOK(c, "ok", fiber.Map{
		"quiz":      resp,
		"questions": dto.FromQuestions(questions),
	})
}

/* =========================================================
   PATCH - PATCH /api/t/quizzes/:id
   Publish butuh minimal 1 soal.
========================================================= */

func (h *QuizController) Update(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateQuizRequest
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
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	ctx := c.UserContext()
	q, _, err := service.FindManagedQuiz(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if req.QuizIsPublished != nil && *req.QuizIsPublished {
		var n int64
		if err := h.DB.WithContext(ctx).Model(&model.QuizQuestionModel{}).
			Where("quiz_question_quiz_id = ?", q.QuizID).Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek soal")
		}
		if n == 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Quiz butuh minimal 1 soal sebelum dipublish")
		}
	}

	if err := h.DB.WithContext(ctx).Model(q).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update quiz %s: %v", q.QuizID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui quiz")
	}
	fresh, err := service.FindQuiz(ctx, h.DB, q.QuizID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Quiz berhasil diperbarui", dto.FromModel(fresh))
}

/* =========================================================
   DELETE - DELETE /api/t/quizzes/:id (hard delete + compact)
   Soal & hasil ikut terhapus via ON DELETE CASCADE.
========================================================= */

func (h *QuizController) Delete(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	q, _, err := service.FindManagedQuiz(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = contentService.WithCourseLock(ctx, h.DB, q.QuizCourseID, func(tx *gorm.DB, course *courseModel.CourseModel) error {
		if err := tx.Delete(&model.QuizModel{}, "quiz_id = ?", q.QuizID).Error; err != nil {
			return err
		}
		return contentService.CompactPositions(tx, course.CourseID)
	})
	if err != nil {
		return respondTxError(c, err, "menghapus quiz")
	}

	log.Printf("[INFO] quiz deleted id=%s course=%s by=%s", q.QuizID, q.QuizCourseID, actor.UserID)
	return helper.JsonDeleted(c, "Quiz berhasil dihapus", fiber.Map{"quiz_id": q.QuizID})
}
