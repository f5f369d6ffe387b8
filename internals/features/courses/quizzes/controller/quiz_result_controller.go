package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/courses/quizzes/dto"
	"elearning_backend/internals/features/courses/quizzes/model"
	"elearning_backend/internals/features/courses/quizzes/service"
	helper "elearning_backend/internals/helpers"
)

var resultSortColumns = map[string]string{
	"created_at": "quiz_result_created_at",
	"score":      "quiz_result_score",
	"percentage": "quiz_result_percentage",
	"submitted":  "quiz_result_submitted_at",
}

// GET /api/t/quizzes/:id/results?status=submitted&q=budi&page=1&per_page=20
func (h *QuizController) Results(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	quiz, _, err := service.FindManagedQuiz(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	q := h.DB.WithContext(ctx).Model(&model.QuizResultModel{}).
		Joins("JOIN users u ON u.id = quiz_results.quiz_result_user_id").
		Where("quiz_results.quiz_result_quiz_id = ?", quiz.QuizID)
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("quiz_results.quiz_result_status = ?", st)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("(u.user_name ILIKE ? OR u.full_name ILIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung hasil")
	}

	type row struct {
		model.QuizResultModel
		UserName string `gorm:"column:user_name"`
	}
	var rows []row
	if err := q.Select("quiz_results.*, u.user_name").
		Order(p.OrderClause(resultSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil hasil")
	}

	out := make([]dto.ResultResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromResult(&rows[i].QuizResultModel)
		name := rows[i].UserName
		r.UserName = &name
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

// GET /api/t/quiz-results/:id (detail jawaban siswa)
func (h *QuizController) ResultDetail(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	var r model.QuizResultModel
	if err := h.DB.WithContext(ctx).Preload("Answers").First(&r, "quiz_result_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Hasil quiz tidak ditemukan")
	}
	if _, _, err := service.FindManagedQuiz(ctx, h.DB, r.QuizResultQuizID, actor); err != nil {
		return helper.FromFiberError(c, err)
	}
	questions, err := service.LoadQuestions(h.DB.WithContext(ctx), r.QuizResultQuizID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	return helper.JsonOK(c, "ok", dto.WithReview(dto.FromResult(&r), r.Answers, questions, true))
}
