package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/features/courses/quizzes/model"
)

func TestNormalizeQuestionMultipleChoice(t *testing.T) {
	opts := []string{" Bandung ", "Jakarta", "Surabaya"}

	got, ans, err := NormalizeQuestion("multiple_choice", opts, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bandung", "Jakarta", "Surabaya"}, got)
	assert.Equal(t, "Jakarta", ans, "index dinormalisasi jadi teks opsi")

	_, ans, err = NormalizeQuestion(model.QuestionMultipleChoice, opts, " Surabaya ")
	require.NoError(t, err)
	assert.Equal(t, "Surabaya", ans)

	_, _, err = NormalizeQuestion(model.QuestionMultipleChoice, opts, "3")
	assert.ErrorIs(t, err, ErrCorrectNotInOptions)
}

func TestNormalizeQuestionLiteralBeatsIndex(t *testing.T) {
	_, ans, err := NormalizeQuestion(model.QuestionMultipleChoice, []string{"10", "1", "0"}, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", ans)
}

func TestNormalizeQuestionMultipleChoiceRejects(t *testing.T) {
	_, _, err := NormalizeQuestion(model.QuestionMultipleChoice, []string{"A"}, "A")
	assert.ErrorIs(t, err, ErrOptionsTooFew)

	_, _, err = NormalizeQuestion(model.QuestionMultipleChoice, []string{"A", " "}, "A")
	assert.ErrorIs(t, err, ErrOptionEmpty)

	_, _, err = NormalizeQuestion(model.QuestionMultipleChoice, []string{"A", "a"}, "A")
	assert.ErrorIs(t, err, ErrOptionDuplicate)

	_, _, err = NormalizeQuestion(model.QuestionMultipleChoice, []string{"A", "B"}, "")
	assert.ErrorIs(t, err, ErrCorrectAnswerEmpty)
}

func TestNormalizeQuestionTrueFalse(t *testing.T) {
	opts, ans, err := NormalizeQuestion(model.QuestionTrueFalse, []string{"ya", "tidak", "mungkin"}, "TRUE")
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false"}, opts)
	assert.Equal(t, "true", ans)

	_, _, err = NormalizeQuestion(model.QuestionTrueFalse, nil, "maybe")
	assert.ErrorIs(t, err, ErrTrueFalseAnswer)
}

func TestNormalizeQuestionShortAnswer(t *testing.T) {
	opts, ans, err := NormalizeQuestion(model.QuestionShortAnswer, []string{"x"}, "  fotosintesis ")
	require.NoError(t, err)
	assert.Empty(t, opts)
	assert.Equal(t, "fotosintesis", ans)

	_, _, err = NormalizeQuestion(model.QuestionShortAnswer, nil, "  ")
	assert.ErrorIs(t, err, ErrCorrectAnswerEmpty)

	_, _, err = NormalizeQuestion("ESSAY", nil, "x")
	assert.ErrorIs(t, err, ErrQuestionType)
}

func TestNormalizeStoredQuestionNeverReadsIndex(t *testing.T) {
	_, _, err := NormalizeStoredQuestion(model.QuestionMultipleChoice, []string{"A", "B", "C", "D"}, "3")
	assert.ErrorIs(t, err, ErrCorrectNotInOptions)

	_, ans, err := NormalizeStoredQuestion(model.QuestionMultipleChoice, []string{" C ", "D"}, "C")
	require.NoError(t, err)
	assert.Equal(t, "C", ans)
}
