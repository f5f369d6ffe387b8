package model

import (
	"time"

	"github.com/google/uuid"
)

type QuizModel struct {
	QuizID       uuid.UUID `json:"quiz_id"        gorm:"column:quiz_id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuizCourseID uuid.UUID `json:"quiz_course_id" gorm:"column:quiz_course_id;type:uuid;not null"`

	QuizTitle       string  `json:"quiz_title"                 gorm:"column:quiz_title;type:varchar(180);not null"`
	QuizDescription *string `json:"quiz_description,omitempty" gorm:"column:quiz_description"`
	QuizPosition    int     `json:"quiz_position"              gorm:"column:quiz_position;not null"`

	// 0 = tanpa timer / tanpa batas percobaan
	QuizTimerMinutes int  `json:"quiz_timer_minutes" gorm:"column:quiz_timer_minutes;not null;default:0"`
	QuizMaxAttempts  int  `json:"quiz_max_attempts"  gorm:"column:quiz_max_attempts;not null;default:0"`
	QuizIsPublished  bool `json:"quiz_is_published"  gorm:"column:quiz_is_published;not null;default:false"`

	QuizCreatedAt time.Time `json:"quiz_created_at" gorm:"column:quiz_created_at;type:timestamptz;not null;autoCreateTime"`
	QuizUpdatedAt time.Time `json:"quiz_updated_at" gorm:"column:quiz_updated_at;type:timestamptz;not null;autoUpdateTime"`
}

func (QuizModel) TableName() string { return "quizzes" }

// Deadline: nil kalau tanpa timer.
func (m *QuizModel) Deadline(startedAt time.Time) *time.Time {
	if m.QuizTimerMinutes <= 0 {
		return nil
	}
	d := startedAt.Add(time.Duration(m.QuizTimerMinutes) * time.Minute)
	return &d
}
