package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/courses/quizzes/dto"
	"elearning_backend/internals/features/courses/quizzes/model"
	"elearning_backend/internals/features/courses/quizzes/service"
	helper "elearning_backend/internals/helpers"
)

// findManagedQuestion: soal + guard pemilik course lewat quiz-nya.
func (h *QuizController) findManagedQuestion(c *fiber.Ctx, actor courseService.Actor) (*model.QuizQuestionModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	ctx := c.UserContext()
	var q model.QuizQuestionModel
	if err := h.DB.WithContext(ctx).First(&q, "quiz_question_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Soal tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	if _, _, err := service.FindManagedQuiz(ctx, h.DB, q.QuizQuestionQuizID, actor); err != nil {
		return nil, err
	}
	return &q, nil
}

/* =========================================================
   CREATE - POST /api/t/quizzes/:id/questions
========================================================= */

func (h *QuizController) CreateQuestion(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	quizID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.QuizQuestionText = strings.TrimSpace(req.QuizQuestionText)
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	qType, err := service.NormalizeType(req.QuizQuestionType)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	opts, correct, err := service.NormalizeQuestion(qType, req.QuizQuestionOptions, string(req.QuizQuestionCorrectAnswer))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	quiz, _, err := service.FindManagedQuiz(ctx, h.DB, quizID, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	points := 1
	if req.QuizQuestionPoints != nil {
		points = *req.QuizQuestionPoints
	}
	m := model.QuizQuestionModel{
		QuizQuestionQuizID:        quiz.QuizID,
		QuizQuestionType:          qType,
		QuizQuestionText:          req.QuizQuestionText,
		QuizQuestionOptions:       model.EncodeOptions(opts),
		QuizQuestionCorrectAnswer: correct,
		QuizQuestionPoints:        points,
		QuizQuestionExplanation:   trimPtr(req.QuizQuestionExplanation),
	}

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := service.LockQuiz(tx, quiz.QuizID); err != nil {
			return err
		}
		pos, err := service.NextQuestionPosition(tx, quiz.QuizID)
		if err != nil {
			return err
		}
		m.QuizQuestionPosition = pos
		return tx.Create(&m).Error
	})
	if err != nil {
		return respondTxError(c, err, "membuat soal")
	}
	return helper.JsonCreated(c, "Soal berhasil dibuat", dto.FromQuestion(&m))
}

/* =========================================================
   LIST - GET /api/t/quizzes/:id/questions
========================================================= */

func (h *QuizController) ListQuestions(c *fiber.Ctx) error {
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
	list, err := service.LoadQuestions(h.DB.WithContext(ctx), quiz.QuizID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	return helper.JsonOK(c, "ok", dto.FromQuestions(list))
}

/* =========================================================
   PATCH - PATCH /api/t/questions/:id
   Validasi per tipe dijalankan di bentuk akhir (lama + patch).
========================================================= */

func (h *QuizController) UpdateQuestion(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	q, err := h.findManagedQuestion(c, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	qType, text, options, correct, keyFromClient := req.Merge(q)
	if text == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "quiz_question_text wajib diisi")
	}
	qType, err = service.NormalizeType(qType)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	// TRUE_FALSE / SHORT_ANSWER mengabaikan opsi lama
	normalize := service.NormalizeStoredQuestion
	if keyFromClient {
		normalize = service.NormalizeQuestion
	}
	opts, correct, err := normalize(qType, options, correct)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]any{
		"quiz_question_type":           qType,
		"quiz_question_text":           text,
		"quiz_question_options":        model.EncodeOptions(opts),
		"quiz_question_correct_answer": correct,
	}
	if req.QuizQuestionPoints != nil {
		updates["quiz_question_points"] = *req.QuizQuestionPoints
	}
	if f := req.QuizQuestionExplanation; f.ShouldUpdate() {
		if v := strings.TrimSpace(f.Val()); f.IsNull() || v == "" {
			updates["quiz_question_explanation"] = nil
		} else {
			updates["quiz_question_explanation"] = v
		}
	}

	ctx := c.UserContext()
	if err := h.DB.WithContext(ctx).Model(q).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update question %s: %v", q.QuizQuestionID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui soal")
	}
	var fresh model.QuizQuestionModel
	if err := h.DB.WithContext(ctx).First(&fresh, "quiz_question_id = ?", q.QuizQuestionID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	return helper.JsonUpdated(c, "Soal berhasil diperbarui", dto.FromQuestion(&fresh))
}

/* =========================================================
   DELETE - DELETE /api/t/questions/:id
========================================================= */

func (h *QuizController) DeleteQuestion(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	q, err := h.findManagedQuestion(c, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := service.LockQuiz(tx, q.QuizQuestionQuizID); err != nil {
			return err
		}
		if err := tx.Delete(&model.QuizQuestionModel{}, "quiz_question_id = ?", q.QuizQuestionID).Error; err != nil {
			return err
		}
		return service.CompactQuestions(tx, q.QuizQuestionQuizID)
	})
	if err != nil {
		return respondTxError(c, err, "menghapus soal")
	}
	return helper.JsonDeleted(c, "Soal berhasil dihapus", fiber.Map{"quiz_question_id": q.QuizQuestionID})
}

/* =========================================================
   REORDER - PUT /api/t/quizzes/:id/questions/reorder
   Body: {"ids": [...]} urutan lengkap.
========================================================= */

func (h *QuizController) ReorderQuestions(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ReorderQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	quiz, _, err := service.FindManagedQuiz(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var list []model.QuizQuestionModel
	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := service.LockQuiz(tx, quiz.QuizID); err != nil {
			return err
		}
		current, err := service.LoadQuestions(tx, quiz.QuizID)
		if err != nil {
			return err
		}
		if err := service.ValidateQuestionOrder(current, req.IDs); err != nil {
			return err
		}
		if err := service.WriteQuestionOrder(tx, quiz.QuizID, req.IDs); err != nil {
			return err
		}
		list, err = service.LoadQuestions(tx, quiz.QuizID)
		return err
	})
	if err != nil {
		return respondTxError(c, err, "mengubah urutan soal")
	}
	return helper.JsonUpdated(c, "Urutan soal diperbarui", dto.FromQuestions(list))
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
