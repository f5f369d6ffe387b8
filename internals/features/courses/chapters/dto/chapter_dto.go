package dto

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"elearning_backend/internals/features/courses/chapters/model"
	helper "elearning_backend/internals/helpers"
)

/* =========================
   Request
========================= */

type CreateChapterRequest struct {
	ChapterTitle       string  `json:"chapter_title"        validate:"required,min=2,max=180"`
	ChapterDescription *string `json:"chapter_description"`
	ChapterIsFree      bool    `json:"chapter_is_free"`
	ChapterVideoURL    *string `json:"chapter_video_url"    validate:"omitempty,url,max=2000"`
	ChapterDocumentURL *string `json:"chapter_document_url" validate:"omitempty,url,max=2000"`
}

func (r *CreateChapterRequest) Normalize() {
	r.ChapterTitle = strings.TrimSpace(r.ChapterTitle)
	r.ChapterDescription = trimPtr(r.ChapterDescription)
	r.ChapterVideoURL = trimPtr(r.ChapterVideoURL)
	r.ChapterDocumentURL = trimPtr(r.ChapterDocumentURL)
}

func (r *CreateChapterRequest) ToModel(courseID uuid.UUID, position int) *model.ChapterModel {
	m := &model.ChapterModel{
		ChapterCourseID:    courseID,
		ChapterTitle:       r.ChapterTitle,
		ChapterDescription: r.ChapterDescription,
		ChapterPosition:    position,
		ChapterIsFree:      r.ChapterIsFree,
		ChapterVideoURL:    r.ChapterVideoURL,
		ChapterDocumentURL: r.ChapterDocumentURL,
	}
	if r.ChapterDocumentURL != nil {
		name := NameFromURL(*r.ChapterDocumentURL)
		m.ChapterDocumentName = &name
	}
	return m
}

type UpdateChapterRequest struct {
	ChapterTitle       *string                    `json:"chapter_title" validate:"omitempty,min=2,max=180"`
	ChapterDescription helper.UpdateField[string] `json:"chapter_description"`
	ChapterIsFree      *bool                      `json:"chapter_is_free"`
	ChapterVideoURL    helper.UpdateField[string] `json:"chapter_video_url"`
	ChapterDocumentURL helper.UpdateField[string] `json:"chapter_document_url"`
}

// ToUpdates: map kolom → nilai. URL dicek di sini karena UpdateField tidak bisa divalidasi tag.
func (r *UpdateChapterRequest) ToUpdates() (map[string]any, error) {
	u := map[string]any{}
	if r.ChapterTitle != nil {
		t := strings.TrimSpace(*r.ChapterTitle)
		if len(t) < 2 {
			return nil, errors.New("chapter_title minimal 2 karakter")
		}
		u["chapter_title"] = t
	}
	if r.ChapterIsFree != nil {
		u["chapter_is_free"] = *r.ChapterIsFree
	}
	if f := r.ChapterDescription; f.ShouldUpdate() {
		if v := strings.TrimSpace(f.Val()); f.IsNull() || v == "" {
			u["chapter_description"] = nil
		} else {
			u["chapter_description"] = v
		}
	}
	if f := r.ChapterVideoURL; f.ShouldUpdate() {
		v, err := nullableURL(f, "chapter_video_url")
		if err != nil {
			return nil, err
		}
		u["chapter_video_url"] = v
	}
	if f := r.ChapterDocumentURL; f.ShouldUpdate() {
		v, err := nullableURL(f, "chapter_document_url")
		if err != nil {
			return nil, err
		}
		u["chapter_document_url"] = v
		if s, ok := v.(string); ok {
			u["chapter_document_name"] = NameFromURL(s)
		} else {
			u["chapter_document_name"] = nil
		}
	}
	return u, nil
}

type PublishRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

type AttachmentURLRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	URL  string `json:"url"  validate:"required,url,max=2000"`
}

type ReorderAttachmentsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

/* =========================
   Response
========================= */

type AttachmentResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Kind     string    `json:"kind"`
	Position int       `json:"position"`
}

type ChapterResponse struct {
	ChapterID           uuid.UUID `json:"chapter_id"`
	ChapterCourseID     uuid.UUID `json:"chapter_course_id"`
	ChapterTitle        string    `json:"chapter_title"`
	ChapterDescription  *string   `json:"chapter_description,omitempty"`
	ChapterPosition     int       `json:"chapter_position"`
	ChapterIsFree       bool      `json:"chapter_is_free"`
	ChapterIsPublished  bool      `json:"chapter_is_published"`
	ChapterVideoURL     *string   `json:"chapter_video_url,omitempty"`
	ChapterDocumentURL  *string   `json:"chapter_document_url,omitempty"`
	ChapterDocumentName *string   `json:"chapter_document_name,omitempty"`
	ChapterCreatedAt    time.Time `json:"chapter_created_at"`
	ChapterUpdatedAt    time.Time `json:"chapter_updated_at"`

	Attachments []AttachmentResponse `json:"attachments"`
	IsCompleted *bool                `json:"is_completed,omitempty"`
}

func FromModel(m *model.ChapterModel) ChapterResponse {
	return ChapterResponse{
		ChapterID:           m.ChapterID,
		ChapterCourseID:     m.ChapterCourseID,
		ChapterTitle:        m.ChapterTitle,
		ChapterDescription:  m.ChapterDescription,
		ChapterPosition:     m.ChapterPosition,
		ChapterIsFree:       m.ChapterIsFree,
		ChapterIsPublished:  m.ChapterIsPublished,
		ChapterVideoURL:     m.ChapterVideoURL,
		ChapterDocumentURL:  m.ChapterDocumentURL,
		ChapterDocumentName: m.ChapterDocumentName,
		ChapterCreatedAt:    m.ChapterCreatedAt,
		ChapterUpdatedAt:    m.ChapterUpdatedAt,
		Attachments:         FromAttachments(m.Attachments),
	}
}

func FromAttachments(list []model.ChapterAttachmentModel) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromAttachment(&a))
	}
	return out
}

func FromAttachment(a *model.ChapterAttachmentModel) AttachmentResponse {
	return AttachmentResponse{
		ID:       a.ChapterAttachmentID,
		Name:     a.ChapterAttachmentName,
		URL:      a.ChapterAttachmentURL,
		Kind:     a.ChapterAttachmentKind,
		Position: a.ChapterAttachmentPosition,
	}
}

/* =========================
   Helpers
========================= */

// NameFromURL: segmen terakhir path, tanpa query.
func NameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	p := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return u.Host
	}
	if dec, err := url.PathUnescape(p); err == nil {
		return dec
	}
	return p
}

func nullableURL(f helper.UpdateField[string], col string) (any, error) {
	v := strings.TrimSpace(f.Val())
	if f.IsNull() || v == "" {
		return nil, nil
	}
	if len(v) > 2000 {
		return nil, errors.New(col + " terlalu panjang")
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(col + " harus URL http(s) yang valid")
	}
	return v, nil
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
