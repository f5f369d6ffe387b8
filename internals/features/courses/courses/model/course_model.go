package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID        uuid.UUID `json:"course_id"         gorm:"column:course_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CourseTeacherID uuid.UUID `json:"course_teacher_id" gorm:"column:course_teacher_id;type:uuid;not null"`

	CourseTitle        string  `json:"course_title"                 gorm:"column:course_title;type:varchar(180);not null"`
	CourseSlug         string  `json:"course_slug"                  gorm:"column:course_slug;type:varchar(200);not null"`
	CourseDescription  *string `json:"course_description,omitempty" gorm:"column:course_description"`
	CourseImageURL     *string `json:"course_image_url,omitempty"   gorm:"column:course_image_url"`
	CourseThumbnailURL *string `json:"course_thumbnail_url,omitempty" gorm:"column:course_thumbnail_url"`

	CoursePrice       decimal.Decimal `json:"course_price"        gorm:"column:course_price;type:numeric(14,2);not null;default:0"`
	CourseIsPublished bool            `json:"course_is_published" gorm:"column:course_is_published;not null;default:false"`

	// targeting untuk rekomendasi
	CourseGrade      *string        `json:"course_grade,omitempty"      gorm:"column:course_grade;type:varchar(50)"`
	CourseDivisions  pq.StringArray `json:"course_divisions"            gorm:"column:course_divisions;type:text[];not null;default:'{}'"`
	CourseCurriculum *string        `json:"course_curriculum,omitempty" gorm:"column:course_curriculum;type:varchar(50)"`

	CourseCreatedAt time.Time      `json:"course_created_at"           gorm:"column:course_created_at;type:timestamptz;not null;autoCreateTime"`
	CourseUpdatedAt time.Time      `json:"course_updated_at"           gorm:"column:course_updated_at;type:timestamptz;not null;autoUpdateTime"`
	CourseDeletedAt gorm.DeletedAt `json:"course_deleted_at,omitempty" gorm:"column:course_deleted_at;index"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) IsFree() bool { return m.CoursePrice.Sign() <= 0 }
