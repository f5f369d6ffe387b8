package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/features/courses/courses/dto"
	helper "elearning_backend/internals/helpers"
)

const slugMaxLen = 200

// UniqueCourseSlug: slug dari input (atau judul), unik case-insensitive di antara course yang hidup.
func UniqueCourseSlug(ctx context.Context, db *gorm.DB, raw string, excludeID *uuid.UUID) (string, error) {
	base := helper.Slugify(raw, slugMaxLen)
	return helper.EnsureUniqueSlugCI(ctx, db, "courses", "course_slug", base,
		func(q *gorm.DB) *gorm.DB {
			q = q.Where("course_deleted_at IS NULL")
			if excludeID != nil {
				q = q.Where("course_id <> ?", *excludeID)
			}
			return q
		}, slugMaxLen)
}

// TeacherBriefs: satu query untuk semua teacher di halaman list.
func TeacherBriefs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]dto.TeacherBrief, error) {
	out := map[uuid.UUID]dto.TeacherBrief{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []dto.TeacherBrief
	if err := db.WithContext(ctx).
		Table("users").
		Select("id, user_name, full_name").
		Where("id IN ?", uniqueIDs(ids)).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

// PurchasedSet: course mana saja (dari ids) yang sudah dibeli user.
func PurchasedSet(ctx context.Context, db *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := db.WithContext(ctx).
		Table("purchases").
		Where("purchase_user_id = ? AND purchase_course_id IN ?", userID, uniqueIDs(courseIDs)).
		Pluck("purchase_course_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// ApplyCatalogFilters: filter katalog publik dari query string.
func ApplyCatalogFilters(q *gorm.DB, f CatalogFilter) *gorm.DB {
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + s + "%"
		q = q.Where("(course_title ILIKE ? OR course_description ILIKE ?)", like, like)
	}
	if f.Grade != "" {
		q = q.Where("LOWER(course_grade) = LOWER(?)", f.Grade)
	}
	if f.Curriculum != "" {
		q = q.Where("LOWER(course_curriculum) = LOWER(?)", f.Curriculum)
	}
	if f.Division != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(course_divisions) d WHERE LOWER(d) = LOWER(?))", f.Division)
	}
	if f.TeacherID != uuid.Nil {
		q = q.Where("course_teacher_id = ?", f.TeacherID)
	}
	if f.Free != nil {
		if *f.Free {
			q = q.Where("course_price = 0")
		} else {
			q = q.Where("course_price > 0")
		}
	}
	return q
}

type CatalogFilter struct {
	Q          string
	Grade      string
	Division   string
	Curriculum string
	TeacherID  uuid.UUID
	Free       *bool
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
