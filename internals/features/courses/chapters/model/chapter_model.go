package model

import (
	"time"

	"github.com/google/uuid"
)

type ChapterModel struct {
	ChapterID       uuid.UUID `json:"chapter_id"        gorm:"column:chapter_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ChapterCourseID uuid.UUID `json:"chapter_course_id" gorm:"column:chapter_course_id;type:uuid;not null"`

	ChapterTitle       string  `json:"chapter_title"                 gorm:"column:chapter_title;type:varchar(180);not null"`
	ChapterDescription *string `json:"chapter_description,omitempty" gorm:"column:chapter_description"`

	// posisi di urutan gabungan chapter+quiz (1..n)
	ChapterPosition    int  `json:"chapter_position"     gorm:"column:chapter_position;not null"`
	ChapterIsFree      bool `json:"chapter_is_free"      gorm:"column:chapter_is_free;not null;default:false"`
	ChapterIsPublished bool `json:"chapter_is_published" gorm:"column:chapter_is_published;not null;default:false"`

	ChapterVideoURL     *string `json:"chapter_video_url,omitempty"     gorm:"column:chapter_video_url"`
	ChapterDocumentURL  *string `json:"chapter_document_url,omitempty"  gorm:"column:chapter_document_url"`
	ChapterDocumentName *string `json:"chapter_document_name,omitempty" gorm:"column:chapter_document_name"`

	ChapterCreatedAt time.Time `json:"chapter_created_at" gorm:"column:chapter_created_at;type:timestamptz;not null;autoCreateTime"`
	ChapterUpdatedAt time.Time `json:"chapter_updated_at" gorm:"column:chapter_updated_at;type:timestamptz;not null;autoUpdateTime"`

	Attachments []ChapterAttachmentModel `json:"attachments,omitempty" gorm:"foreignKey:ChapterAttachmentChapterID;references:ChapterID"`
}

func (ChapterModel) TableName() string { return "chapters" }

// HasContent: chapter baru boleh publish kalau punya video atau dokumen.
func (m *ChapterModel) HasContent() bool {
	return (m.ChapterVideoURL != nil && *m.ChapterVideoURL != "") ||
		(m.ChapterDocumentURL != nil && *m.ChapterDocumentURL != "")
}
