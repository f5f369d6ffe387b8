package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	chapterModel "elearning_backend/internals/features/courses/chapters/model"
	courseModel "elearning_backend/internals/features/courses/courses/model"
	quizModel "elearning_backend/internals/features/courses/quizzes/model"
)

/*
Semua perubahan posisi (create/delete chapter atau quiz, reorder) jalan di
dalam transaksi yang memegang row lock course. Dua teacher yang drag-drop
bersamaan akan antri, bukan saling menimpa posisi.
*/

// LockCourse: SELECT ... FOR UPDATE pada baris course (yang belum soft-delete).
func LockCourse(tx *gorm.DB, courseID uuid.UUID) (*courseModel.CourseModel, error) {
	var c courseModel.CourseModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ?", courseID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return nil, err
	}
	return &c, nil
}

// WithCourseLock menjalankan fn di dalam transaksi dengan course terkunci.
func WithCourseLock(ctx context.Context, db *gorm.DB, courseID uuid.UUID, fn func(tx *gorm.DB, course *courseModel.CourseModel) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := LockCourse(tx, courseID)
		if err != nil {
			return err
		}
		return fn(tx, course)
	})
}

// LoadItems: chapter + quiz satu course, sudah terurut.
// publishedOnly untuk tampilan siswa.
func LoadItems(tx *gorm.DB, courseID uuid.UUID, publishedOnly bool) ([]Item, error) {
	var chapters []chapterModel.ChapterModel
	qc := tx.Where("chapter_course_id = ?", courseID)
	if publishedOnly {
		qc = qc.Where("chapter_is_published = TRUE")
	}
	if err := qc.Find(&chapters).Error; err != nil {
		return nil, err
	}

	var quizzes []quizModel.QuizModel
	qq := tx.Where("quiz_course_id = ?", courseID)
	if publishedOnly {
		qq = qq.Where("quiz_is_published = TRUE")
	}
	if err := qq.Find(&quizzes).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(chapters)+len(quizzes))
	for _, ch := range chapters {
		items = append(items, Item{
			Type:        ItemChapter,
			ID:          ch.ChapterID,
			Title:       ch.ChapterTitle,
			Position:    ch.ChapterPosition,
			IsPublished: ch.ChapterIsPublished,
			IsFree:      ch.ChapterIsFree,
			HasVideo:    ch.ChapterVideoURL != nil && *ch.ChapterVideoURL != "",
			HasDocument: ch.ChapterDocumentURL != nil && *ch.ChapterDocumentURL != "",
		})
	}
	for _, q := range quizzes {
		items = append(items, Item{
			Type:         ItemQuiz,
			ID:           q.QuizID,
			Title:        q.QuizTitle,
			Position:     q.QuizPosition,
			IsPublished:  q.QuizIsPublished,
			TimerMinutes: q.QuizTimerMinutes,
			MaxAttempts:  q.QuizMaxAttempts,
		})
	}
	SortItems(items)
	return items, nil
}

// NextPosition: posisi untuk item baru (append). Panggil di dalam WithCourseLock.
func NextPosition(tx *gorm.DB, courseID uuid.UUID) (int, error) {
	var maxPos int
	err := tx.Raw(`
		SELECT COALESCE(MAX(p), 0) FROM (
			SELECT chapter_position AS p FROM chapters WHERE chapter_course_id = ?
			UNION ALL
			SELECT quiz_position AS p FROM quizzes WHERE quiz_course_id = ?
		) t`, courseID, courseID).Scan(&maxPos).Error
	return maxPos + 1, err
}

// CompactPositions menutup celah setelah delete.
func CompactPositions(tx *gorm.DB, courseID uuid.UUID) error {
	items, err := LoadItems(tx, courseID, false)
	if err != nil {
		return err
	}
	return writeAssignments(tx, Compact(items))
}

// Reorder: desired harus permutasi penuh item course. Mengembalikan urutan baru.
func Reorder(tx *gorm.DB, courseID uuid.UUID, desired []Ref) ([]Item, error) {
	items, err := LoadItems(tx, courseID, false)
	if err != nil {
		return nil, err
	}
	assigns, err := PlanReorder(items, desired)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := writeAssignments(tx, assigns); err != nil {
		return nil, err
	}
	return ApplyAssignments(items, assigns), nil
}

func writeAssignments(tx *gorm.DB, assigns []Assignment) error {
	for _, a := range assigns {
		var res *gorm.DB
		switch a.Type {
		case ItemChapter:
			res = tx.Model(&chapterModel.ChapterModel{}).
				Where("chapter_id = ?", a.ID).
				Update("chapter_position", a.Position)
		case ItemQuiz:
			res = tx.Model(&quizModel.QuizModel{}).
				Where("quiz_id = ?", a.ID).
				Update("quiz_position", a.Position)
		default:
			return ErrReorderType
		}
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}
