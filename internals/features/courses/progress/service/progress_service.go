package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"elearning_backend/internals/features/courses/progress/model"
)

// MarkChapter: upsert baris progress. completed_at pertama dipertahankan.
func MarkChapter(ctx context.Context, db *gorm.DB, userID, courseID, chapterID uuid.UUID, done bool) error {
	now := time.Now()
	row := model.UserProgressModel{
		UserProgressUserID:      userID,
		UserProgressChapterID:   chapterID,
		UserProgressCourseID:    courseID,
		UserProgressIsCompleted: done,
	}
	if done {
		row.UserProgressCompletedAt = &now
	}

	completedAt := clause.Expr{SQL: "NULL"}
	if done {
		completedAt = clause.Expr{SQL: "COALESCE(user_progress.user_progress_completed_at, EXCLUDED.user_progress_completed_at)"}
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_progress_user_id"}, {Name: "user_progress_chapter_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "user_progress_is_completed"}, Value: done},
			{Column: clause.Column{Name: "user_progress_completed_at"}, Value: completedAt},
			{Column: clause.Column{Name: "user_progress_updated_at"}, Value: now},
		},
	}).Create(&row).Error
}

// CourseProgress: ringkasan progress satu course.
type CourseProgress struct {
	CourseID          uuid.UUID       `json:"course_id"`
	TotalChapters     int64           `json:"total_chapters"`
	CompletedChapters int64           `json:"completed_chapters"`
	Percentage        decimal.Decimal `json:"percentage"`
	CompletedIDs      []uuid.UUID     `json:"completed_chapter_ids"`
}

// Percent: round(done/total*100, 2); 0 kalau total 0.
func Percent(done, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	if done > total {
		done = total
	}
	return decimal.NewFromInt(done).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total)).Round(2)
}

// GetCourseProgress: hanya chapter publish yang dihitung.
func GetCourseProgress(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (CourseProgress, error) {
	out := CourseProgress{CourseID: courseID, CompletedIDs: []uuid.UUID{}}
	tx := db.WithContext(ctx)

	if err := tx.Table("chapters").
		Where("chapter_course_id = ? AND chapter_is_published = TRUE", courseID).
		Count(&out.TotalChapters).Error; err != nil {
		return out, err
	}
	if err := tx.Table("user_progress up").
		Joins("JOIN chapters ch ON ch.chapter_id = up.user_progress_chapter_id").
		Where("up.user_progress_user_id = ? AND up.user_progress_course_id = ?", userID, courseID).
		Where("up.user_progress_is_completed = TRUE AND ch.chapter_is_published = TRUE").
		Pluck("up.user_progress_chapter_id", &out.CompletedIDs).Error; err != nil {
		return out, err
	}
	out.CompletedChapters = int64(len(out.CompletedIDs))
	out.Percentage = Percent(out.CompletedChapters, out.TotalChapters)
	return out, nil
}

// CoursePercentages: persen per course untuk banyak course sekaligus (dashboard user).
func CoursePercentages(ctx context.Context, db *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	type agg struct {
		CourseID uuid.UUID
		Total    int64
		Done     int64
	}
	var rows []agg
	err := db.WithContext(ctx).Raw(`
		SELECT ch.chapter_course_id AS course_id,
		       COUNT(*) AS total,
		       COUNT(up.user_progress_id) FILTER (WHERE up.user_progress_is_completed) AS done
		FROM chapters ch
		LEFT JOIN user_progress up
		       ON up.user_progress_chapter_id = ch.chapter_id AND up.user_progress_user_id = ?
		WHERE ch.chapter_course_id IN ? AND ch.chapter_is_published = TRUE
		GROUP BY ch.chapter_course_id`, userID, courseIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range courseIDs {
		out[id] = decimal.Zero
	}
	for _, r := range rows {
		out[r.CourseID] = Percent(r.Done, r.Total)
	}
	return out, nil
}

// RecentResult: hasil quiz terbaru beserta judul quiz.
type RecentResult struct {
	QuizResultID uuid.UUID       `json:"quiz_result_id"`
	QuizID       uuid.UUID       `json:"quiz_id"`
	QuizTitle    string          `json:"quiz_title"`
	CourseID     uuid.UUID       `json:"course_id"`
	UserID       uuid.UUID       `json:"user_id"`
	UserName     string          `json:"user_name,omitempty"`
	AttemptNo    int             `json:"attempt_no"`
	Score        int             `json:"score"`
	TotalPoints  int             `json:"total_points"`
	Percentage   decimal.Decimal `json:"percentage"`
	SubmittedAt  *time.Time      `json:"submitted_at,omitempty"`
}

// ResultFilter: salah satu/lebih diisi; kosong semua = tidak dibatasi.
type ResultFilter struct {
	UserID    *uuid.UUID
	CourseID  *uuid.UUID
	TeacherID *uuid.UUID
}

// RecentResults: hasil submitted terbaru sesuai filter.
func RecentResults(ctx context.Context, db *gorm.DB, f ResultFilter, limit int) ([]RecentResult, error) {
	q := db.WithContext(ctx).Table("quiz_results r").
		Select(`r.quiz_result_id, r.quiz_result_quiz_id AS quiz_id, q.quiz_title, q.quiz_course_id AS course_id,
		        r.quiz_result_user_id AS user_id, u.user_name, r.quiz_result_attempt_no AS attempt_no,
		        r.quiz_result_score AS score, r.quiz_result_total_points AS total_points,
		        r.quiz_result_percentage AS percentage, r.quiz_result_submitted_at AS submitted_at`).
		Joins("JOIN quizzes q ON q.quiz_id = r.quiz_result_quiz_id").
		Joins("JOIN users u ON u.id = r.quiz_result_user_id").
		Where("r.quiz_result_status = 'submitted'")
	if f.UserID != nil {
		q = q.Where("r.quiz_result_user_id = ?", *f.UserID)
	}
	if f.CourseID != nil {
		q = q.Where("q.quiz_course_id = ?", *f.CourseID)
	}
	if f.TeacherID != nil {
		q = q.Joins("JOIN courses c ON c.course_id = q.quiz_course_id").
			Where("c.course_teacher_id = ? AND c.course_deleted_at IS NULL", *f.TeacherID)
	}
	var out []RecentResult
	err := q.Order("r.quiz_result_submitted_at DESC").Limit(limit).Scan(&out).Error
	if out == nil {
		out = []RecentResult{}
	}
	return out, err
}
