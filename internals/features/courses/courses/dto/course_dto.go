package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"elearning_backend/internals/features/courses/courses/model"
	helper "elearning_backend/internals/helpers"
)

var maxPrice = decimal.NewFromInt(1_000_000_000)

/* =========================
   Request: create
========================= */

type CreateCourseRequest struct {
	CourseTitle       string           `json:"course_title"       form:"course_title"       validate:"required,min=3,max=180"`
	CourseSlug        *string          `json:"course_slug"        form:"course_slug"        validate:"omitempty,max=200"`
	CourseDescription *string          `json:"course_description" form:"course_description"`
	CoursePrice       *decimal.Decimal `json:"course_price"       form:"course_price"`
	CourseGrade       *string          `json:"course_grade"       form:"course_grade"       validate:"omitempty,max=50"`
	CourseDivisions   []string         `json:"course_divisions"   form:"course_divisions"   validate:"omitempty,max=20,dive,max=50"`
	CourseCurriculum  *string          `json:"course_curriculum"  form:"course_curriculum"  validate:"omitempty,max=50"`

	// admin boleh membuat course atas nama teacher lain
	CourseTeacherID *uuid.UUID `json:"course_teacher_id" form:"course_teacher_id"`
}

func (r *CreateCourseRequest) Normalize() {
	r.CourseTitle = strings.TrimSpace(r.CourseTitle)
	r.CourseDescription = trimPtr(r.CourseDescription)
	r.CourseSlug = trimPtr(r.CourseSlug)
	r.CourseGrade = trimPtr(r.CourseGrade)
	r.CourseCurriculum = trimPtr(r.CourseCurriculum)
	r.CourseDivisions = NormalizeDivisions(r.CourseDivisions)
}

func (r *CreateCourseRequest) Validate() error {
	if r.CoursePrice != nil {
		return ValidatePrice(*r.CoursePrice)
	}
	return nil
}

func (r *CreateCourseRequest) ToModel(teacherID uuid.UUID, slug string) *model.CourseModel {
	price := decimal.Zero
	if r.CoursePrice != nil {
		price = r.CoursePrice.Round(2)
	}
	return &model.CourseModel{
		CourseTeacherID:   teacherID,
		CourseTitle:       r.CourseTitle,
		CourseSlug:        slug,
		CourseDescription: r.CourseDescription,
		CoursePrice:       price,
		CourseGrade:       r.CourseGrade,
		CourseDivisions:   pq.StringArray(r.CourseDivisions),
		CourseCurriculum:  r.CourseCurriculum,
	}
}

/* =========================
   Request: patch
========================= */

type UpdateCourseRequest struct {
	CourseTitle       *string                    `json:"course_title"       validate:"omitempty,min=3,max=180"`
	CourseSlug        *string                    `json:"course_slug"        validate:"omitempty,max=200"`
	CourseDescription helper.UpdateField[string] `json:"course_description"`
	CoursePrice       *decimal.Decimal           `json:"course_price"`
	CourseGrade       helper.UpdateField[string] `json:"course_grade"`
	CourseDivisions   *[]string                  `json:"course_divisions"`
	CourseCurriculum  helper.UpdateField[string] `json:"course_curriculum"`
}

// ToUpdates: map kolom → nilai (slug diurus controller karena butuh cek unik).
func (r *UpdateCourseRequest) ToUpdates() (map[string]any, error) {
	u := map[string]any{}
	if r.CourseTitle != nil {
		t := strings.TrimSpace(*r.CourseTitle)
		if len(t) < 3 {
			return nil, errors.New("course_title minimal 3 karakter")
		}
		u["course_title"] = t
	}
	if r.CoursePrice != nil {
		if err := ValidatePrice(*r.CoursePrice); err != nil {
			return nil, err
		}
		u["course_price"] = r.CoursePrice.Round(2)
	}
	if r.CourseDivisions != nil {
		u["course_divisions"] = pq.StringArray(NormalizeDivisions(*r.CourseDivisions))
	}
	for _, f := range []struct {
		col    string
		field  helper.UpdateField[string]
		maxLen int
	}{
		{"course_description", r.CourseDescription, 0},
		{"course_grade", r.CourseGrade, 50},
		{"course_curriculum", r.CourseCurriculum, 50},
	} {
		if err := putNullable(u, f.col, f.field, f.maxLen); err != nil {
			return nil, err
		}
	}
	return u, nil
}

type PublishRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

/* =========================
   Response
========================= */

type TeacherBrief struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	FullName *string   `json:"full_name,omitempty"`
}

type CourseResponse struct {
	CourseID           uuid.UUID       `json:"course_id"`
	CourseTeacherID    uuid.UUID       `json:"course_teacher_id"`
	CourseTitle        string          `json:"course_title"`
	CourseSlug         string          `json:"course_slug"`
	CourseDescription  *string         `json:"course_description,omitempty"`
	CourseImageURL     *string         `json:"course_image_url,omitempty"`
	CourseThumbnailURL *string         `json:"course_thumbnail_url,omitempty"`
	CoursePrice        decimal.Decimal `json:"course_price"`
	CourseIsFree       bool            `json:"course_is_free"`
	CourseIsPublished  bool            `json:"course_is_published"`
	CourseGrade        *string         `json:"course_grade,omitempty"`
	CourseDivisions    []string        `json:"course_divisions"`
	CourseCurriculum   *string         `json:"course_curriculum,omitempty"`
	CourseCreatedAt    time.Time       `json:"course_created_at"`
	CourseUpdatedAt    time.Time       `json:"course_updated_at"`

	Teacher     *TeacherBrief `json:"teacher,omitempty"`
	IsPurchased *bool         `json:"is_purchased,omitempty"`
}

func FromModel(m *model.CourseModel) CourseResponse {
	div := []string(m.CourseDivisions)
	if div == nil {
		div = []string{}
	}
	return CourseResponse{
		CourseID:           m.CourseID,
		CourseTeacherID:    m.CourseTeacherID,
		CourseTitle:        m.CourseTitle,
		CourseSlug:         m.CourseSlug,
		CourseDescription:  m.CourseDescription,
		CourseImageURL:     m.CourseImageURL,
		CourseThumbnailURL: m.CourseThumbnailURL,
		CoursePrice:        m.CoursePrice,
		CourseIsFree:       m.IsFree(),
		CourseIsPublished:  m.CourseIsPublished,
		CourseGrade:        m.CourseGrade,
		CourseDivisions:    div,
		CourseCurriculum:   m.CourseCurriculum,
		CourseCreatedAt:    m.CourseCreatedAt,
		CourseUpdatedAt:    m.CourseUpdatedAt,
	}
}

func FromModels(list []model.CourseModel, teachers map[uuid.UUID]TeacherBrief) []CourseResponse {
	out := make([]CourseResponse, 0, len(list))
	for i := range list {
		r := FromModel(&list[i])
		if t, ok := teachers[list[i].CourseTeacherID]; ok {
			tt := t
			r.Teacher = &tt
		}
		out = append(out, r)
	}
	return out
}

/* =========================
   Helpers
========================= */

func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return errors.New("course_price tidak boleh negatif")
	}
	if p.GreaterThan(maxPrice) {
		return errors.New("course_price terlalu besar")
	}
	return nil
}

// NormalizeDivisions: trim, buang kosong & duplikat (case-insensitive), urutan dipertahankan.
func NormalizeDivisions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, d := range in {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		k := strings.ToLower(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// putNullable: absent = skip, null/"" = NULL.
func putNullable(u map[string]any, col string, f helper.UpdateField[string], maxLen int) error {
	if !f.ShouldUpdate() {
		return nil
	}
	v := strings.TrimSpace(f.Val())
	if f.IsNull() || v == "" {
		u[col] = nil
		return nil
	}
	if maxLen > 0 && len(v) > maxLen {
		return errors.New(col + " terlalu panjang")
	}
	u[col] = v
	return nil
}
