package model

import (
	"time"

	"github.com/google/uuid"
)

type ChapterAttachmentModel struct {
	ChapterAttachmentID        uuid.UUID `json:"chapter_attachment_id"         gorm:"column:chapter_attachment_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ChapterAttachmentChapterID uuid.UUID `json:"chapter_attachment_chapter_id" gorm:"column:chapter_attachment_chapter_id;type:uuid;not null"`
	ChapterAttachmentName      string    `json:"chapter_attachment_name"       gorm:"column:chapter_attachment_name;type:varchar(200);not null"`
	ChapterAttachmentURL       string    `json:"chapter_attachment_url"        gorm:"column:chapter_attachment_url;not null"`
	ChapterAttachmentKind      string    `json:"chapter_attachment_kind"       gorm:"column:chapter_attachment_kind;type:varchar(20);not null;default:'other'"`
	ChapterAttachmentPosition  int       `json:"chapter_attachment_position"   gorm:"column:chapter_attachment_position;not null;default:1"`
	ChapterAttachmentCreatedAt time.Time `json:"chapter_attachment_created_at" gorm:"column:chapter_attachment_created_at;type:timestamptz;not null;autoCreateTime"`
}

func (ChapterAttachmentModel) TableName() string { return "chapter_attachments" }
