package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/courses/quizzes/dto"
	"elearning_backend/internals/features/courses/quizzes/model"
	"elearning_backend/internals/features/courses/quizzes/service"
	helper "elearning_backend/internals/helpers"
)

type QuizUserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewQuizUserController(db *gorm.DB) *QuizUserController {
	return &QuizUserController{DB: db, Validator: validator.New()}
}

// accessibleQuiz: quiz terlihat & boleh dikerjakan actor.
func (h *QuizUserController) accessibleQuiz(c *fiber.Ctx, actor courseService.Actor, quizID uuid.UUID) (*model.QuizModel, *courseModel.CourseModel, error) {
	ctx := c.UserContext()
	q, err := service.FindQuiz(ctx, h.DB, quizID)
	if err != nil {
		return nil, nil, err
	}
	course, err := courseService.FindCourse(ctx, h.DB, q.QuizCourseID)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanManage(course) && (!course.CourseIsPublished || !q.QuizIsPublished) {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
	}
	ok, err := courseService.HasCourseAccess(ctx, h.DB, course, actor)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal cek akses")
	}
	if !ok {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Beli course ini untuk mengerjakan quiz")
	}
	return q, course, nil
}

/* =========================================================
   START - POST /api/u/quizzes/:id/start
   Attempt in_progress yang masih dalam waktu dilanjutkan (resume).
========================================================= */

func (h *QuizUserController) Start(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	quiz, _, err := h.accessibleQuiz(c, actor, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var (
		result    *model.QuizResultModel
		questions []model.QuizQuestionModel
		used      int
		resumed   bool
	)
	now := time.Now()
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var err error
		questions, err = service.LoadQuestions(tx, quiz.QuizID)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quiz belum punya soal")
		}

		open, err := service.FindOpenAttempt(tx, quiz.QuizID, actor.UserID)
		if err != nil {
			return err
		}
		if _, err := service.ExpireStale(tx, quiz, open, now); err != nil {
			return err
		}
		used, err = service.CountAttempts(tx, quiz.QuizID, actor.UserID)
		if err != nil {
			return err
		}
		if open != nil && open.QuizResultStatus == model.ResultInProgress {
			result, resumed = open, true
			return nil
		}

		if service.AttemptsLeft(quiz, used) == 0 {
			return fiber.NewError(fiber.StatusConflict, "Batas percobaan quiz sudah habis")
		}
		result = &model.QuizResultModel{
			QuizResultQuizID:    quiz.QuizID,
			QuizResultUserID:    actor.UserID,
			QuizResultAttemptNo: used + 1,
			QuizResultStatus:    model.ResultInProgress,
			QuizResultStartedAt: now,
		}
		if err := tx.Create(result).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Attempt sedang dibuat, coba lagi")
			}
			return err
		}
		used++
		return nil
	})
	if err != nil {
		return respondTxError(c, err, "memulai quiz")
	}

	if !resumed {
		log.Printf("[INFO] quiz attempt started quiz=%s user=%s no=%d", quiz.QuizID, actor.UserID, result.QuizResultAttemptNo)
	}
	return helper.JsonOK(c, "Quiz dimulai", dto.StartResponse{
		ResultID:     result.QuizResultID,
		QuizID:       quiz.QuizID,
		AttemptNo:    result.QuizResultAttemptNo,
		StartedAt:    result.QuizResultStartedAt,
		Deadline:     quiz.Deadline(result.QuizResultStartedAt),
		AttemptsLeft: service.AttemptsLeft(quiz, used),
		Resumed:      resumed,
		Questions:    dto.ToPublicQuestions(questions),
	})
}

/* =========================================================
   SUBMIT - POST /api/u/quiz-results/:id/submit
   Body: {"answers":[{"question_id":"...","answer":"..."}]}
========================================================= */

func (h *QuizUserController) Submit(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var (
		result    model.QuizResultModel
		questions []model.QuizQuestionModel
		answers   []model.QuizResultAnswerModel
		late      bool
	)
	now := time.Now()
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("quiz_result_id = ? AND quiz_result_user_id = ?", id, actor.UserID).
			First(&result).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Attempt tidak ditemukan")
			}
			return err
		}
		var quiz model.QuizModel
		if err := tx.First(&quiz, "quiz_id = ?", result.QuizResultQuizID).Error; err != nil {
			return err
		}
		expire, err := service.CheckSubmit(&quiz, &result, now)
		if expire {
			if _, err := service.ExpireStale(tx, &quiz, &result, now); err != nil {
				return err
			}
			// status expired tetap di-commit
			late = true
			return nil
		}
		if err != nil {
			return err
		}

		questions, err = service.LoadQuestions(tx, quiz.QuizID)
		if err != nil {
			return err
		}
		g := service.Grade(questions, req.AnswerMap())

		answers = make([]model.QuizResultAnswerModel, 0, len(g.Answers))
		for _, a := range g.Answers {
			answers = append(answers, model.QuizResultAnswerModel{
				QuizResultAnswerResultID:   result.QuizResultID,
				QuizResultAnswerQuestionID: a.QuestionID,
				QuizResultAnswerValue:      a.Value,
				QuizResultAnswerIsCorrect:  a.IsCorrect,
				QuizResultAnswerPoints:     a.Points,
			})
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}

		result.QuizResultStatus = model.ResultSubmitted
		result.QuizResultScore = g.Score
		result.QuizResultTotalPoints = g.TotalPoints
		result.QuizResultPercentage = g.Percentage
		result.QuizResultSubmittedAt = &now
		return tx.Model(&result).Updates(map[string]any{
			"quiz_result_status":       result.QuizResultStatus,
			"quiz_result_score":        result.QuizResultScore,
			"quiz_result_total_points": result.QuizResultTotalPoints,
			"quiz_result_percentage":   result.QuizResultPercentage,
			"quiz_result_submitted_at": now,
		}).Error
	})
	if err == nil && late {
		err = service.ErrAttemptLate
	}
	if err != nil {
		return respondTxError(c, err, "submit quiz")
	}

	log.Printf("[INFO] quiz submitted result=%s user=%s score=%d/%d",
		result.QuizResultID, actor.UserID, result.QuizResultScore, result.QuizResultTotalPoints)
	resp := dto.WithReview(dto.FromResult(&result), answers, questions, true)
	return helper.JsonOK(c, "Quiz berhasil disubmit", resp)
}

/* =========================================================
   MY RESULTS - GET /api/u/quizzes/:id/results
========================================================= */

func (h *QuizUserController) MyResults(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []model.QuizResultModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("quiz_result_quiz_id = ? AND quiz_result_user_id = ?", id, actor.UserID).
		Order("quiz_result_attempt_no DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil hasil quiz")
	}
	return helper.JsonOK(c, "ok", dto.FromResults(rows))
}

/* =========================================================
   DETAIL - GET /api/u/quiz-results/:id (milik sendiri)
========================================================= */

func (h *QuizUserController) GetResult(c *fiber.Ctx) error {
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
	if err := h.DB.WithContext(ctx).Preload("Answers").
		Where("quiz_result_id = ? AND quiz_result_user_id = ?", id, actor.UserID).
		First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Hasil quiz tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil hasil quiz")
	}
	questions, err := service.LoadQuestions(h.DB.WithContext(ctx), r.QuizResultQuizID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	// kunci hanya dibuka setelah submit
	reveal := r.QuizResultStatus == model.ResultSubmitted
	return helper.JsonOK(c, "ok", dto.WithReview(dto.FromResult(&r), r.Answers, questions, reveal))
}
