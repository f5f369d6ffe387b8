package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/features/courses/chapters/model"
	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
)

// FindChapter: chapter + lampiran (urut position).
func FindChapter(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.ChapterModel, error) {
	var ch model.ChapterModel
	err := db.WithContext(ctx).
		Preload("Attachments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("chapter_attachment_position ASC, chapter_attachment_created_at ASC")
		}).
		First(&ch, "chapter_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil chapter")
	}
	return &ch, nil
}

// FindManagedChapter: chapter beserta course-nya, hanya untuk admin/teacher pemilik.
func FindManagedChapter(ctx context.Context, db *gorm.DB, id uuid.UUID, actor courseService.Actor) (*model.ChapterModel, *courseModel.CourseModel, error) {
	ch, err := FindChapter(ctx, db, id)
	if err != nil {
		return nil, nil, err
	}
	course, err := courseService.FindManagedCourse(ctx, db, ch.ChapterCourseID, actor)
	if err != nil {
		return nil, nil, err
	}
	return ch, course, nil
}

// EnsureNotLastPublished: course yang sudah publish harus tetap punya >=1 chapter publish.
// Dipanggil sebelum unpublish / delete chapter yang sedang publish.
func EnsureNotLastPublished(tx *gorm.DB, course *courseModel.CourseModel, ch *model.ChapterModel) error {
	if !course.CourseIsPublished || !ch.ChapterIsPublished {
		return nil
	}
	var n int64
	if err := tx.Model(&model.ChapterModel{}).
		Where("chapter_course_id = ? AND chapter_is_published = TRUE AND chapter_id <> ?", course.CourseID, ch.ChapterID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusConflict, "Ini chapter publish terakhir; unpublish course terlebih dulu")
	}
	return nil
}

// NextAttachmentPosition: append di akhir daftar lampiran chapter.
func NextAttachmentPosition(tx *gorm.DB, chapterID uuid.UUID) (int, error) {
	var maxPos int
	err := tx.Model(&model.ChapterAttachmentModel{}).
		Select("COALESCE(MAX(chapter_attachment_position), 0)").
		Where("chapter_attachment_chapter_id = ?", chapterID).
		Scan(&maxPos).Error
	return maxPos + 1, err
}

// ValidateAttachmentOrder: ids harus permutasi penuh dari lampiran yang ada.
func ValidateAttachmentOrder(current []model.ChapterAttachmentModel, ids []uuid.UUID) error {
	if len(ids) != len(current) {
		return fiber.NewError(fiber.StatusBadRequest, "Jumlah lampiran tidak sesuai")
	}
	have := make(map[uuid.UUID]struct{}, len(current))
	for _, a := range current {
		have[a.ChapterAttachmentID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Lampiran bukan milik chapter ini: "+id.String())
		}
		if _, dup := seen[id]; dup {
			return fiber.NewError(fiber.StatusBadRequest, "Lampiran duplikat: "+id.String())
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CompactAttachments: posisi lampiran 1..n setelah delete.
func CompactAttachments(tx *gorm.DB, chapterID uuid.UUID) error {
	var list []model.ChapterAttachmentModel
	if err := tx.Where("chapter_attachment_chapter_id = ?", chapterID).
		Order("chapter_attachment_position ASC, chapter_attachment_created_at ASC").
		Find(&list).Error; err != nil {
		return err
	}
	for i, a := range list {
		if a.ChapterAttachmentPosition == i+1 {
			continue
		}
		if err := tx.Model(&model.ChapterAttachmentModel{}).
			Where("chapter_attachment_id = ?", a.ChapterAttachmentID).
			Update("chapter_attachment_position", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
