package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"elearning_backend/internals/features/courses/quizzes/model"
)

// GradedAnswer: hasil koreksi satu soal.
type GradedAnswer struct {
	QuestionID uuid.UUID
	Value      string
	IsCorrect  bool
	Points     int
}

type GradeResult struct {
	Score       int
	TotalPoints int
	Percentage  decimal.Decimal
	Answers     []GradedAnswer
}

// collapse: trim + spasi beruntun jadi satu.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsCorrect membandingkan jawaban user dengan kunci sesuai tipe soal.
func IsCorrect(q *model.QuizQuestionModel, answer string) bool {
	switch q.QuizQuestionType {
	case model.QuestionMultipleChoice:
		a := strings.TrimSpace(answer)
		return a != "" && a == strings.TrimSpace(q.QuizQuestionCorrectAnswer)
	case model.QuestionTrueFalse:
		a, ok := NormalizeTrueFalse(answer)
		key, keyOK := NormalizeTrueFalse(q.QuizQuestionCorrectAnswer)
		return ok && keyOK && a == key
	default:
		a := collapse(answer)
		return a != "" && strings.EqualFold(a, collapse(q.QuizQuestionCorrectAnswer))
	}
}

// Percentage: round(score/total*100, 2); 0 kalau total 0.
func Percentage(score, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(score)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

// Grade mengoreksi semua soal quiz; soal yang tidak dijawab dihitung salah.
// Jawaban untuk soal di luar quiz diabaikan.
func Grade(questions []model.QuizQuestionModel, answers map[uuid.UUID]string) GradeResult {
	res := GradeResult{Answers: make([]GradedAnswer, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		res.TotalPoints += q.QuizQuestionPoints

		val := strings.TrimSpace(answers[q.QuizQuestionID])
		ga := GradedAnswer{QuestionID: q.QuizQuestionID, Value: val}
		if IsCorrect(q, val) {
			ga.IsCorrect = true
			ga.Points = q.QuizQuestionPoints
			res.Score += q.QuizQuestionPoints
		}
		res.Answers = append(res.Answers, ga)
	}
	res.Percentage = Percentage(res.Score, res.TotalPoints)
	return res
}
