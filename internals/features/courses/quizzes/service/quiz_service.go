package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/courses/quizzes/model"
)

// toleransi jaringan setelah timer habis
const SubmitGrace = 30 * time.Second

func FindQuiz(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.QuizModel, error) {
	var q model.QuizModel
	if err := db.WithContext(ctx).First(&q, "quiz_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil quiz")
	}
	return &q, nil
}

// FindManagedQuiz: quiz + course, hanya admin / teacher pemilik.
func FindManagedQuiz(ctx context.Context, db *gorm.DB, id uuid.UUID, actor courseService.Actor) (*model.QuizModel, *courseModel.CourseModel, error) {
	q, err := FindQuiz(ctx, db, id)
	if err != nil {
		return nil, nil, err
	}
	course, err := courseService.FindManagedCourse(ctx, db, q.QuizCourseID, actor)
	if err != nil {
		return nil, nil, err
	}
	return q, course, nil
}

// LoadQuestions: urut position.
func LoadQuestions(tx *gorm.DB, quizID uuid.UUID) ([]model.QuizQuestionModel, error) {
	var list []model.QuizQuestionModel
	err := tx.Where("quiz_question_quiz_id = ?", quizID).
		Order("quiz_question_position ASC, quiz_question_created_at ASC").
		Find(&list).Error
	return list, err
}

// LockQuiz: FOR UPDATE, dipakai saat mengubah urutan soal supaya tidak balapan.
func LockQuiz(tx *gorm.DB, quizID uuid.UUID) error {
	var id uuid.UUID
	res := tx.Model(&model.QuizModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("quiz_id").Where("quiz_id = ?", quizID).
		Scan(&id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
	}
	return nil
}

func NextQuestionPosition(tx *gorm.DB, quizID uuid.UUID) (int, error) {
	var maxPos int
	err := tx.Model(&model.QuizQuestionModel{}).
		Select("COALESCE(MAX(quiz_question_position), 0)").
		Where("quiz_question_quiz_id = ?", quizID).
		Scan(&maxPos).Error
	return maxPos + 1, err
}

// WriteQuestionOrder: ids (sudah divalidasi permutasi) → posisi 1..n.
func WriteQuestionOrder(tx *gorm.DB, quizID uuid.UUID, ids []uuid.UUID) error {
	for i, id := range ids {
		if err := tx.Model(&model.QuizQuestionModel{}).
			Where("quiz_question_id = ? AND quiz_question_quiz_id = ?", id, quizID).
			Update("quiz_question_position", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

// CompactQuestions: tutup celah posisi setelah delete.
func CompactQuestions(tx *gorm.DB, quizID uuid.UUID) error {
	list, err := LoadQuestions(tx, quizID)
	if err != nil {
		return err
	}
	for i, q := range list {
		if q.QuizQuestionPosition == i+1 {
			continue
		}
		if err := tx.Model(&model.QuizQuestionModel{}).
			Where("quiz_question_id = ?", q.QuizQuestionID).
			Update("quiz_question_position", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuestionOrder: ids harus berisi semua soal quiz, tanpa duplikat.
func ValidateQuestionOrder(current []model.QuizQuestionModel, ids []uuid.UUID) error {
	if len(ids) != len(current) {
		return fiber.NewError(fiber.StatusBadRequest, "Jumlah soal tidak sesuai")
	}
	have := make(map[uuid.UUID]struct{}, len(current))
	for _, q := range current {
		have[q.QuizQuestionID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Soal bukan milik quiz ini: "+id.String())
		}
		if _, dup := seen[id]; dup {
			return fiber.NewError(fiber.StatusBadRequest, "Soal duplikat: "+id.String())
		}
		seen[id] = struct{}{}
	}
	return nil
}

/* =========================
   Attempt
========================= */

// IsLate: submit setelah timer + grace.
func IsLate(q *model.QuizModel, startedAt, now time.Time) bool {
	d := q.Deadline(startedAt)
	if d == nil {
		return false
	}
	return now.After(d.Add(SubmitGrace))
}

// AttemptsLeft: -1 = tanpa batas.
func AttemptsLeft(q *model.QuizModel, used int) int {
	if q.QuizMaxAttempts <= 0 {
		return -1
	}
	left := q.QuizMaxAttempts - used
	if left < 0 {
		return 0
	}
	return left
}

// CountAttempts: semua attempt user untuk quiz (status apa pun).
func CountAttempts(tx *gorm.DB, quizID, userID uuid.UUID) (int, error) {
	var n int64
	err := tx.Model(&model.QuizResultModel{}).
		Where("quiz_result_quiz_id = ? AND quiz_result_user_id = ?", quizID, userID).
		Count(&n).Error
	return int(n), err
}

// FindOpenAttempt: attempt in_progress terakhir, nil kalau tidak ada.
func FindOpenAttempt(tx *gorm.DB, quizID, userID uuid.UUID) (*model.QuizResultModel, error) {
	var r model.QuizResultModel
	err := tx.Where("quiz_result_quiz_id = ? AND quiz_result_user_id = ? AND quiz_result_status = ?",
		quizID, userID, model.ResultInProgress).
		Order("quiz_result_attempt_no DESC").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

var (
	ErrAttemptSubmitted = fiber.NewError(fiber.StatusConflict, "Attempt ini sudah disubmit")
	ErrAttemptLate      = fiber.NewError(fiber.StatusConflict, "Waktu pengerjaan sudah habis")
)

// CheckSubmit: apakah attempt boleh disubmit sekarang.
// expire=true berarti attempt harus ditandai expired (dan di-commit) sebelum ditolak.
func CheckSubmit(q *model.QuizModel, r *model.QuizResultModel, now time.Time) (expire bool, err error) {
	switch r.QuizResultStatus {
	case model.ResultSubmitted:
		return false, ErrAttemptSubmitted
	case model.ResultExpired:
		return false, ErrAttemptLate
	}
	if IsLate(q, r.QuizResultStartedAt, now) {
		return true, ErrAttemptLate
	}
	return false, nil
}

// ExpireStale menandai attempt in_progress yang sudah lewat deadline+grace.
func ExpireStale(tx *gorm.DB, q *model.QuizModel, r *model.QuizResultModel, now time.Time) (bool, error) {
	if r == nil || !IsLate(q, r.QuizResultStartedAt, now) {
		return false, nil
	}
	err := tx.Model(r).Updates(map[string]any{
		"quiz_result_status": model.ResultExpired,
	}).Error
	if err == nil {
		r.QuizResultStatus = model.ResultExpired
	}
	return err == nil, err
}
