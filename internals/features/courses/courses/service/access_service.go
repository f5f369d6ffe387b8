package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	"elearning_backend/internals/features/courses/courses/model"
)

// Actor: user yang sedang request (dari Locals).
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == constants.RoleAdmin }

// CanManage: admin atau teacher pemilik course.
func (a Actor) CanManage(c *model.CourseModel) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == constants.RoleTeacher && c.CourseTeacherID == a.UserID
}

// FindCourse: course belum soft-delete, 404 kalau tidak ada.
func FindCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.CourseModel, error) {
	var c model.CourseModel
	if err := db.WithContext(ctx).First(&c, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil course")
	}
	return &c, nil
}

// FindManagedCourse: FindCourse + guard pemilik (403).
func FindManagedCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID, actor Actor) (*model.CourseModel, error) {
	c, err := FindCourse(ctx, db, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(c) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anda bukan pemilik course ini")
	}
	return c, nil
}

// HasPurchased: ada baris purchases (sumber apa pun).
func HasPurchased(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	var ok bool
	err := db.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE purchase_user_id = ? AND purchase_course_id = ?)`,
		userID, courseID).Scan(&ok).Error
	return ok, err
}

// HasCourseAccess: admin, teacher pemilik, atau sudah membeli.
// Chapter gratis dicek terpisah di level chapter.
func HasCourseAccess(ctx context.Context, db *gorm.DB, c *model.CourseModel, actor Actor) (bool, error) {
	if actor.CanManage(c) {
		return true, nil
	}
	if actor.UserID == uuid.Nil {
		return false, nil
	}
	return HasPurchased(ctx, db, actor.UserID, c.CourseID)
}

// CanAccessChapter: aturan akses konten chapter.
func CanAccessChapter(ctx context.Context, db *gorm.DB, c *model.CourseModel, chapterIsFree bool, actor Actor) (bool, error) {
	if chapterIsFree {
		return true, nil
	}
	return HasCourseAccess(ctx, db, c, actor)
}
