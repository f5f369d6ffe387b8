package service

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"elearning_backend/internals/features/courses/quizzes/model"
)

func TestCheckSubmit(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	timed := &model.QuizModel{QuizTimerMinutes: 15}

	attempt := func(status string) *model.QuizResultModel {
		return &model.QuizResultModel{QuizResultStatus: status, QuizResultStartedAt: start}
	}

	cases := []struct {
		name       string
		quiz       *model.QuizModel
		result     *model.QuizResultModel
		now        time.Time
		wantExpire bool
		wantErr    error
	}{
		{"dalam waktu", timed, attempt(model.ResultInProgress), start.Add(14 * time.Minute), false, nil},
		{"masih dalam grace", timed, attempt(model.ResultInProgress), start.Add(15*time.Minute + 29*time.Second), false, nil},
		{"lewat grace ditandai expired", timed, attempt(model.ResultInProgress), start.Add(16 * time.Minute), true, ErrAttemptLate},
		{"submit kedua ditolak", timed, attempt(model.ResultSubmitted), start.Add(time.Minute), false, ErrAttemptSubmitted},
		{"attempt expired ditolak", timed, attempt(model.ResultExpired), start.Add(time.Minute), false, ErrAttemptLate},
		{"tanpa timer tidak pernah telat", &model.QuizModel{}, attempt(model.ResultInProgress), start.Add(72 * time.Hour), false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expire, err := CheckSubmit(tc.quiz, tc.result, tc.now)
			assert.Equal(t, tc.wantExpire, expire)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			var fe *fiber.Error
			if assert.ErrorAs(t, err, &fe) {
				assert.Equal(t, fiber.StatusConflict, fe.Code)
			}
		})
	}
}
