package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/features/courses/quizzes/model"
	"elearning_backend/internals/features/courses/quizzes/service"
)

func TestAnswerValueAcceptsScalars(t *testing.T) {
	cases := map[string]string{
		`{"quiz_question_correct_answer": "Jakarta"}`: "Jakarta",
		`{"quiz_question_correct_answer": 2}`:         "2",
		`{"quiz_question_correct_answer": true}`:      "true",
		`{"quiz_question_correct_answer": null}`:      "",
	}
	for body, want := range cases {
		var req CreateQuestionRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, string(req.QuizQuestionCorrectAnswer), body)
	}

	var req CreateQuestionRequest
	assert.Error(t, json.Unmarshal([]byte(`{"quiz_question_correct_answer": [1]}`), &req))
}

func TestUpdateQuestionMerge(t *testing.T) {
	cur := &model.QuizQuestionModel{
		QuizQuestionType:          model.QuestionMultipleChoice,
		QuizQuestionText:          "Ibu kota?",
		QuizQuestionOptions:       model.EncodeOptions([]string{"A", "B"}),
		QuizQuestionCorrectAnswer: "A",
	}
	var req UpdateQuestionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"quiz_question_correct_answer": 1}`), &req))

	qType, text, opts, correct, fromClient := req.Merge(cur)
	assert.Equal(t, model.QuestionMultipleChoice, qType)
	assert.Equal(t, "Ibu kota?", text)
	assert.Equal(t, []string{"A", "B"}, opts)
	assert.Equal(t, "1", correct)
	assert.True(t, fromClient)
}

func normalizeMerged(t *testing.T, cur *model.QuizQuestionModel, body string) ([]string, string, error) {
	t.Helper()
	var req UpdateQuestionRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	qType, _, opts, correct, fromClient := req.Merge(cur)
	if fromClient {
		return service.NormalizeQuestion(qType, opts, correct)
	}
	return service.NormalizeStoredQuestion(qType, opts, correct)
}

func TestUpdateOptionsKeepsStoredNumericAnswer(t *testing.T) {
	cur := &model.QuizQuestionModel{
		QuizQuestionType:          model.QuestionMultipleChoice,
		QuizQuestionText:          "1 + 2 = ?",
		QuizQuestionOptions:       model.EncodeOptions([]string{"1", "2", "3"}),
		QuizQuestionCorrectAnswer: "3",
	}

	// kunci "3" lama tidak ada di opsi baru: jangan dibaca sebagai index 3
	_, _, err := normalizeMerged(t, cur, `{"quiz_question_options": ["A", "B", "C", "D"]}`)
	assert.ErrorIs(t, err, service.ErrCorrectNotInOptions)

	opts, correct, err := normalizeMerged(t, cur, `{"quiz_question_options": ["3", "4", "5", "6"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "5", "6"}, opts)
	assert.Equal(t, "3", correct)

	// kunci dikirim ulang oleh client: index tetap berlaku
	_, correct, err = normalizeMerged(t, cur, `{"quiz_question_options": ["A", "B", "C", "D"], "quiz_question_correct_answer": 3}`)
	require.NoError(t, err)
	assert.Equal(t, "D", correct)
}

func TestPublicQuestionsHideAnswer(t *testing.T) {
	q := model.QuizQuestionModel{
		QuizQuestionID:            uuid.New(),
		QuizQuestionType:          model.QuestionTrueFalse,
		QuizQuestionOptions:       model.EncodeOptions([]string{"true", "false"}),
		QuizQuestionCorrectAnswer: "true",
	}
	b, err := json.Marshal(ToPublicQuestions([]model.QuizQuestionModel{q}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "correct")
	assert.Contains(t, string(b), `"options":["true","false"]`)
}

func TestSubmitAnswerMapLastWins(t *testing.T) {
	id := uuid.New()
	req := SubmitRequest{Answers: []SubmitAnswer{
		{QuestionID: id, Answer: "A"},
		{QuestionID: id, Answer: "B"},
	}}
	assert.Equal(t, "B", req.AnswerMap()[id])
}
