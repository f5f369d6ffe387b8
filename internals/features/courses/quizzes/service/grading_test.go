package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/features/courses/quizzes/model"
)

func question(qType, correct string, points int) model.QuizQuestionModel {
	return model.QuizQuestionModel{
		QuizQuestionID:            uuid.New(),
		QuizQuestionType:          qType,
		QuizQuestionCorrectAnswer: correct,
		QuizQuestionPoints:        points,
	}
}

func TestIsCorrectPerType(t *testing.T) {
	mc := question(model.QuestionMultipleChoice, "Jakarta", 1)
	assert.True(t, IsCorrect(&mc, "  Jakarta "))
	assert.False(t, IsCorrect(&mc, "jakarta"), "pilihan ganda case-sensitive")
	assert.False(t, IsCorrect(&mc, ""))

	tf := question(model.QuestionTrueFalse, "true", 1)
	assert.True(t, IsCorrect(&tf, "TRUE"))
	assert.False(t, IsCorrect(&tf, "false"))
	assert.True(t, IsCorrect(&tf, " Benar "))
	assert.False(t, IsCorrect(&tf, "salah"))
	assert.False(t, IsCorrect(&tf, "ya"))

	sa := question(model.QuestionShortAnswer, "Ki Hajar  Dewantara", 1)
	assert.True(t, IsCorrect(&sa, "ki hajar dewantara"))
	assert.True(t, IsCorrect(&sa, "  KI   HAJAR\tDEWANTARA "))
	assert.False(t, IsCorrect(&sa, "Dewantara"))
}

func TestGradeScoresAndPercentage(t *testing.T) {
	q1 := question(model.QuestionMultipleChoice, "B", 2)
	q2 := question(model.QuestionTrueFalse, "false", 1)
	q3 := question(model.QuestionShortAnswer, "fotosintesis", 3)
	qs := []model.QuizQuestionModel{q1, q2, q3}

	res := Grade(qs, map[uuid.UUID]string{
		q1.QuizQuestionID: "B",
		q2.QuizQuestionID: "true",
		uuid.New():        "ignored",
	})

	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 6, res.TotalPoints)
	assert.Equal(t, "33.33", res.Percentage.StringFixed(2))
	require.Len(t, res.Answers, 3)
	assert.True(t, res.Answers[0].IsCorrect)
	assert.Equal(t, 2, res.Answers[0].Points)
	assert.False(t, res.Answers[1].IsCorrect)
	assert.Equal(t, "", res.Answers[2].Value)
	assert.Equal(t, 0, res.Answers[2].Points)
}

func TestPercentageEdges(t *testing.T) {
	assert.True(t, Percentage(0, 0).IsZero())
	assert.Equal(t, "100.00", Percentage(5, 5).StringFixed(2))
	assert.Equal(t, "66.67", Percentage(2, 3).StringFixed(2))
}

func TestIsLateUsesGrace(t *testing.T) {
	q := &model.QuizModel{QuizTimerMinutes: 10}
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	assert.False(t, IsLate(q, start, start.Add(10*time.Minute+20*time.Second)))
	assert.True(t, IsLate(q, start, start.Add(10*time.Minute+31*time.Second)))

	noTimer := &model.QuizModel{}
	assert.False(t, IsLate(noTimer, start, start.Add(48*time.Hour)))
}

func TestAttemptsLeft(t *testing.T) {
	assert.Equal(t, -1, AttemptsLeft(&model.QuizModel{QuizMaxAttempts: 0}, 99))
	assert.Equal(t, 2, AttemptsLeft(&model.QuizModel{QuizMaxAttempts: 3}, 1))
	assert.Equal(t, 0, AttemptsLeft(&model.QuizModel{QuizMaxAttempts: 3}, 5))
}
