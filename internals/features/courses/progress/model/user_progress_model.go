package model

import (
	"time"

	"github.com/google/uuid"
)

// UserProgressModel: satu baris per (user, chapter).
type UserProgressModel struct {
	UserProgressID          uuid.UUID  `gorm:"column:user_progress_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_progress_id"`
	UserProgressUserID      uuid.UUID  `gorm:"column:user_progress_user_id;type:uuid;not null"                        json:"user_progress_user_id"`
	UserProgressChapterID   uuid.UUID  `gorm:"column:user_progress_chapter_id;type:uuid;not null"                     json:"user_progress_chapter_id"`
	UserProgressCourseID    uuid.UUID  `gorm:"column:user_progress_course_id;type:uuid;not null"                      json:"user_progress_course_id"`
	UserProgressIsCompleted bool       `gorm:"column:user_progress_is_completed;not null;default:false"               json:"user_progress_is_completed"`
	UserProgressCompletedAt *time.Time `gorm:"column:user_progress_completed_at;type:timestamptz"                     json:"user_progress_completed_at,omitempty"`
	UserProgressCreatedAt   time.Time  `gorm:"column:user_progress_created_at;type:timestamptz;autoCreateTime"        json:"user_progress_created_at"`
	UserProgressUpdatedAt   time.Time  `gorm:"column:user_progress_updated_at;type:timestamptz;autoUpdateTime"        json:"user_progress_updated_at"`
}

func (UserProgressModel) TableName() string {
	return "user_progress"
}
