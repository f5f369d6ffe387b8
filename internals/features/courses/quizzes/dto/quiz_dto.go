package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"elearning_backend/internals/features/courses/quizzes/model"
	helper "elearning_backend/internals/helpers"
)

/* =========================
   Request: quiz
========================= */

type CreateQuizRequest struct {
	QuizTitle        string  `json:"quiz_title"         validate:"required,min=2,max=180"`
	QuizDescription  *string `json:"quiz_description"`
	QuizTimerMinutes int     `json:"quiz_timer_minutes" validate:"min=0,max=1440"`
	QuizMaxAttempts  int     `json:"quiz_max_attempts"  validate:"min=0,max=100"`
}

func (r *CreateQuizRequest) Normalize() {
	r.QuizTitle = strings.TrimSpace(r.QuizTitle)
	if r.QuizDescription != nil {
		d := strings.TrimSpace(*r.QuizDescription)
		if d == "" {
			r.QuizDescription = nil
		} else {
			r.QuizDescription = &d
		}
	}
}

func (r *CreateQuizRequest) ToModel(courseID uuid.UUID, position int) *model.QuizModel {
	return &model.QuizModel{
		QuizCourseID:     courseID,
		QuizTitle:        r.QuizTitle,
		QuizDescription:  r.QuizDescription,
		QuizPosition:     position,
		QuizTimerMinutes: r.QuizTimerMinutes,
		QuizMaxAttempts:  r.QuizMaxAttempts,
	}
}

type UpdateQuizRequest struct {
	QuizTitle        *string                    `json:"quiz_title"         validate:"omitempty,min=2,max=180"`
	QuizDescription  helper.UpdateField[string] `json:"quiz_description"`
	QuizTimerMinutes *int                       `json:"quiz_timer_minutes" validate:"omitempty,min=0,max=1440"`
	QuizMaxAttempts  *int                       `json:"quiz_max_attempts"  validate:"omitempty,min=0,max=100"`
	QuizIsPublished  *bool                      `json:"quiz_is_published"`
}

func (r *UpdateQuizRequest) ToUpdates() (map[string]any, error) {
	u := map[string]any{}
	if r.QuizTitle != nil {
		t := strings.TrimSpace(*r.QuizTitle)
		if len(t) < 2 {
			return nil, errors.New("quiz_title minimal 2 karakter")
		}
		u["quiz_title"] = t
	}
	if f := r.QuizDescription; f.ShouldUpdate() {
		if v := strings.TrimSpace(f.Val()); f.IsNull() || v == "" {
			u["quiz_description"] = nil
		} else {
			u["quiz_description"] = v
		}
	}
	if r.QuizTimerMinutes != nil {
		u["quiz_timer_minutes"] = *r.QuizTimerMinutes
	}
	if r.QuizMaxAttempts != nil {
		u["quiz_max_attempts"] = *r.QuizMaxAttempts
	}
	if r.QuizIsPublished != nil {
		u["quiz_is_published"] = *r.QuizIsPublished
	}
	return u, nil
}

/* =========================
   Response: quiz
========================= */

type QuizResponse struct {
	QuizID           uuid.UUID `json:"quiz_id"`
	QuizCourseID     uuid.UUID `json:"quiz_course_id"`
	QuizTitle        string    `json:"quiz_title"`
	QuizDescription  *string   `json:"quiz_description,omitempty"`
	QuizPosition     int       `json:"quiz_position"`
	QuizTimerMinutes int       `json:"quiz_timer_minutes"`
	QuizMaxAttempts  int       `json:"quiz_max_attempts"`
	QuizIsPublished  bool      `json:"quiz_is_published"`
	QuizCreatedAt    time.Time `json:"quiz_created_at"`
	QuizUpdatedAt    time.Time `json:"quiz_updated_at"`

	QuestionCount *int `json:"question_count,omitempty"`
	TotalPoints   *int `json:"total_points,omitempty"`
}

func FromModel(m *model.QuizModel) QuizResponse {
	return QuizResponse{
		QuizID:           m.QuizID,
		QuizCourseID:     m.QuizCourseID,
		QuizTitle:        m.QuizTitle,
		QuizDescription:  m.QuizDescription,
		QuizPosition:     m.QuizPosition,
		QuizTimerMinutes: m.QuizTimerMinutes,
		QuizMaxAttempts:  m.QuizMaxAttempts,
		QuizIsPublished:  m.QuizIsPublished,
		QuizCreatedAt:    m.QuizCreatedAt,
		QuizUpdatedAt:    m.QuizUpdatedAt,
	}
}
