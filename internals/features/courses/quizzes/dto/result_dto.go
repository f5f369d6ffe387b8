package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"elearning_backend/internals/features/courses/quizzes/model"
)

/* =========================
   Request
========================= */

type SubmitAnswer struct {
	QuestionID uuid.UUID   `json:"question_id" validate:"required"`
	Answer     AnswerValue `json:"answer"`
}

type SubmitRequest struct {
	Answers []SubmitAnswer `json:"answers" validate:"omitempty,max=500,dive"`
}

// AnswerMap: jawaban terakhir menang kalau question_id dobel.
func (r *SubmitRequest) AnswerMap() map[uuid.UUID]string {
	m := make(map[uuid.UUID]string, len(r.Answers))
	for _, a := range r.Answers {
		m[a.QuestionID] = string(a.Answer)
	}
	return m
}

/* =========================
   Response
========================= */

// StartResponse: attempt aktif + soal tanpa kunci.
type StartResponse struct {
	ResultID     uuid.UUID        `json:"quiz_result_id"`
	QuizID       uuid.UUID        `json:"quiz_id"`
	AttemptNo    int              `json:"attempt_no"`
	StartedAt    time.Time        `json:"started_at"`
	Deadline     *time.Time       `json:"deadline,omitempty"`
	AttemptsLeft int              `json:"attempts_left"` // -1 = tanpa batas
	Resumed      bool             `json:"resumed"`
	Questions    []PublicQuestion `json:"questions"`
}

type AnswerReview struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Answer        string    `json:"answer"`
	IsCorrect     bool      `json:"is_correct"`
	Points        int       `json:"points"`
	CorrectAnswer *string   `json:"correct_answer,omitempty"`
	Explanation   *string   `json:"explanation,omitempty"`
}

type ResultResponse struct {
	QuizResultID          uuid.UUID       `json:"quiz_result_id"`
	QuizResultQuizID      uuid.UUID       `json:"quiz_result_quiz_id"`
	QuizResultUserID      uuid.UUID       `json:"quiz_result_user_id"`
	QuizResultAttemptNo   int             `json:"quiz_result_attempt_no"`
	QuizResultStatus      string          `json:"quiz_result_status"`
	QuizResultScore       int             `json:"quiz_result_score"`
	QuizResultTotalPoints int             `json:"quiz_result_total_points"`
	QuizResultPercentage  decimal.Decimal `json:"quiz_result_percentage"`
	QuizResultStartedAt   time.Time       `json:"quiz_result_started_at"`
	QuizResultSubmittedAt *time.Time      `json:"quiz_result_submitted_at,omitempty"`

	UserName *string        `json:"user_name,omitempty"`
	Answers  []AnswerReview `json:"answers,omitempty"`
}

func FromResult(m *model.QuizResultModel) ResultResponse {
	return ResultResponse{
		QuizResultID:          m.QuizResultID,
		QuizResultQuizID:      m.QuizResultQuizID,
		QuizResultUserID:      m.QuizResultUserID,
		QuizResultAttemptNo:   m.QuizResultAttemptNo,
		QuizResultStatus:      m.QuizResultStatus,
		QuizResultScore:       m.QuizResultScore,
		QuizResultTotalPoints: m.QuizResultTotalPoints,
		QuizResultPercentage:  m.QuizResultPercentage,
		QuizResultStartedAt:   m.QuizResultStartedAt,
		QuizResultSubmittedAt: m.QuizResultSubmittedAt,
	}
}

func FromResults(list []model.QuizResultModel) []ResultResponse {
	out := make([]ResultResponse, 0, len(list))
	for i := range list {
		out = append(out, FromResult(&list[i]))
	}
	return out
}

// WithReview menempelkan jawaban; kunci & pembahasan hanya kalau reveal.
func WithReview(r ResultResponse, answers []model.QuizResultAnswerModel, questions []model.QuizQuestionModel, reveal bool) ResultResponse {
	byID := make(map[uuid.UUID]*model.QuizQuestionModel, len(questions))
	for i := range questions {
		byID[questions[i].QuizQuestionID] = &questions[i]
	}
	r.Answers = make([]AnswerReview, 0, len(answers))
	for _, a := range answers {
		rev := AnswerReview{
			QuestionID: a.QuizResultAnswerQuestionID,
			Answer:     a.QuizResultAnswerValue,
			IsCorrect:  a.QuizResultAnswerIsCorrect,
			Points:     a.QuizResultAnswerPoints,
		}
		if q, ok := byID[a.QuizResultAnswerQuestionID]; ok && reveal {
			ca := q.QuizQuestionCorrectAnswer
			rev.CorrectAnswer = &ca
			rev.Explanation = q.QuizQuestionExplanation
		}
		r.Answers = append(r.Answers, rev)
	}
	return r
}
