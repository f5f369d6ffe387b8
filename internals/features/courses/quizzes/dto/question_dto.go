package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"elearning_backend/internals/features/courses/quizzes/model"
	helper "elearning_backend/internals/helpers"
)

/*
AnswerValue menerima kunci jawaban sebagai string ("Jakarta", "2", "true")
atau angka / boolean JSON (2, true). Semua disimpan sebagai teks.
*/
type AnswerValue string

func (a *AnswerValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AnswerValue(s)
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*a = AnswerValue(strconv.FormatBool(v))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New("jawaban harus string, angka, atau boolean")
		}
		*a = AnswerValue(n.String())
	}
	return nil
}

/* =========================
   Request: question
========================= */

type CreateQuestionRequest struct {
	QuizQuestionType          string      `json:"quiz_question_type"           validate:"required"`
	QuizQuestionText          string      `json:"quiz_question_text"           validate:"required,max=5000"`
	QuizQuestionOptions       []string    `json:"quiz_question_options"        validate:"omitempty,max=10,dive,max=500"`
	QuizQuestionCorrectAnswer AnswerValue `json:"quiz_question_correct_answer"`
	QuizQuestionPoints        *int        `json:"quiz_question_points"         validate:"omitempty,min=1,max=1000"`
	QuizQuestionExplanation   *string     `json:"quiz_question_explanation"    validate:"omitempty,max=5000"`
}

type UpdateQuestionRequest struct {
	QuizQuestionType          *string                    `json:"quiz_question_type"`
	QuizQuestionText          *string                    `json:"quiz_question_text"           validate:"omitempty,max=5000"`
	QuizQuestionOptions       *[]string                  `json:"quiz_question_options"        validate:"omitempty,max=10,dive,max=500"`
	QuizQuestionCorrectAnswer *AnswerValue               `json:"quiz_question_correct_answer"`
	QuizQuestionPoints        *int                       `json:"quiz_question_points"         validate:"omitempty,min=1,max=1000"`
	QuizQuestionExplanation   helper.UpdateField[string] `json:"quiz_question_explanation"`
}

// Merge: gabungkan patch ke nilai lama supaya validasi per tipe jalan di bentuk akhirnya.
// keyFromClient false berarti correct adalah kunci tersimpan (teks opsi, bukan index).
func (r *UpdateQuestionRequest) Merge(cur *model.QuizQuestionModel) (qType, text string, options []string, correct string, keyFromClient bool) {
	qType, text, options, correct = cur.QuizQuestionType, cur.QuizQuestionText, cur.OptionList(), cur.QuizQuestionCorrectAnswer
	if r.QuizQuestionType != nil {
		qType = *r.QuizQuestionType
	}
	if r.QuizQuestionText != nil {
		text = strings.TrimSpace(*r.QuizQuestionText)
	}
	if r.QuizQuestionOptions != nil {
		options = *r.QuizQuestionOptions
	}
	if r.QuizQuestionCorrectAnswer != nil {
		correct = string(*r.QuizQuestionCorrectAnswer)
		keyFromClient = true
	}
	return
}

type ReorderQuestionsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

/* =========================
   Response: question
========================= */

// QuestionResponse: versi teacher, lengkap dengan kunci.
type QuestionResponse struct {
	QuizQuestionID            uuid.UUID `json:"quiz_question_id"`
	QuizQuestionQuizID        uuid.UUID `json:"quiz_question_quiz_id"`
	QuizQuestionType          string    `json:"quiz_question_type"`
	QuizQuestionText          string    `json:"quiz_question_text"`
	QuizQuestionOptions       []string  `json:"quiz_question_options"`
	QuizQuestionCorrectAnswer string    `json:"quiz_question_correct_answer"`
	QuizQuestionPoints        int       `json:"quiz_question_points"`
	QuizQuestionPosition      int       `json:"quiz_question_position"`
	QuizQuestionExplanation   *string   `json:"quiz_question_explanation,omitempty"`
	QuizQuestionCreatedAt     time.Time `json:"quiz_question_created_at"`
	QuizQuestionUpdatedAt     time.Time `json:"quiz_question_updated_at"`
}

func FromQuestion(m *model.QuizQuestionModel) QuestionResponse {
	return QuestionResponse{
		QuizQuestionID:            m.QuizQuestionID,
		QuizQuestionQuizID:        m.QuizQuestionQuizID,
		QuizQuestionType:          m.QuizQuestionType,
		QuizQuestionText:          m.QuizQuestionText,
		QuizQuestionOptions:       m.OptionList(),
		QuizQuestionCorrectAnswer: m.QuizQuestionCorrectAnswer,
		QuizQuestionPoints:        m.QuizQuestionPoints,
		QuizQuestionPosition:      m.QuizQuestionPosition,
		QuizQuestionExplanation:   m.QuizQuestionExplanation,
		QuizQuestionCreatedAt:     m.QuizQuestionCreatedAt,
		QuizQuestionUpdatedAt:     m.QuizQuestionUpdatedAt,
	}
}

func FromQuestions(list []model.QuizQuestionModel) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(list))
	for i := range list {
		out = append(out, FromQuestion(&list[i]))
	}
	return out
}

// PublicQuestion: untuk siswa yang sedang mengerjakan, tanpa kunci & pembahasan.
type PublicQuestion struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	Points   int       `json:"points"`
	Position int       `json:"position"`
}

func ToPublicQuestions(list []model.QuizQuestionModel) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(list))
	for i := range list {
		q := &list[i]
		out = append(out, PublicQuestion{
			ID:       q.QuizQuestionID,
			Type:     q.QuizQuestionType,
			Text:     q.QuizQuestionText,
			Options:  q.OptionList(),
			Points:   q.QuizQuestionPoints,
			Position: q.QuizQuestionPosition,
		})
	}
	return out
}
