package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	"elearning_backend/internals/features/courses/chapters/dto"
	"elearning_backend/internals/features/courses/chapters/model"
	"elearning_backend/internals/features/courses/chapters/service"
	contentService "elearning_backend/internals/features/courses/contents/service"
	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
	helperOSS "elearning_backend/internals/helpers/oss"
)

// video bisa ratusan MB
const uploadTimeout = 10 * time.Minute

type ChapterController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Blob      helperOSS.BlobService
}

func NewChapterController(db *gorm.DB, blob helperOSS.BlobService) *ChapterController {
	return &ChapterController{DB: db, Validator: validator.New(), Blob: blob}
}

// respondTxError: fiber.Error diteruskan apa adanya, sisanya dicatat lalu 500.
func respondTxError(c *fiber.Ctx, err error, what string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.FromFiberError(c, err)
	}
	log.Printf("[ERROR] %s: %v", what, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal "+what)
}

/* =========================================================
   CREATE - POST /api/t/courses/:id/chapters
   Chapter baru selalu di akhir urutan gabungan chapter+quiz.
========================================================= */

func (h *ChapterController) Create(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m *model.ChapterModel
	err = contentService.WithCourseLock(c.UserContext(), h.DB, courseID, func(tx *gorm.DB, course *courseModel.CourseModel) error {
		if !actor.CanManage(course) {
			return fiber.NewError(fiber.StatusForbidden, "Anda bukan pemilik course ini")
		}
		pos, err := contentService.NextPosition(tx, course.CourseID)
		if err != nil {
			return err
		}
		m = req.ToModel(course.CourseID, pos)
		return tx.Create(m).Error
	})
	if err != nil {
		return respondTxError(c, err, "membuat chapter")
	}

	log.Printf("[INFO] chapter created id=%s course=%s pos=%d", m.ChapterID, courseID, m.ChapterPosition)
	return helper.JsonCreated(c, "Chapter berhasil dibuat", dto.FromModel(m))
}

/* =========================================================
   DETAIL - GET /api/t/chapters/:id
========================================================= */

func (h *ChapterController) Get(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ch, _, err := service.FindManagedChapter(c.UserContext(), h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(ch))
}

/* =========================================================
   PATCH - PATCH /api/t/chapters/:id
   Menghapus video & dokumen dari chapter yang publish ditolak.
========================================================= */

func (h *ChapterController) Update(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates, err := req.ToUpdates()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	ctx := c.UserContext()
	ch, _, err := service.FindManagedChapter(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if ch.ChapterIsPublished {
		after := *ch
		if v, ok := updates["chapter_video_url"]; ok {
			after.ChapterVideoURL = strOrNil(v)
		}
		if v, ok := updates["chapter_document_url"]; ok {
			after.ChapterDocumentURL = strOrNil(v)
		}
		if !after.HasContent() {
			return helper.JsonError(c, fiber.StatusBadRequest, "Chapter yang publish wajib punya video atau dokumen")
		}
	}

	oldVideo, oldDoc := ch.ChapterVideoURL, ch.ChapterDocumentURL
	if err := h.DB.WithContext(ctx).Model(ch).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update chapter %s: %v", ch.ChapterID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui chapter")
	}
	if _, ok := updates["chapter_video_url"]; ok {
		h.trashIfReplaced(oldVideo, strOrNil(updates["chapter_video_url"]))
	}
	if _, ok := updates["chapter_document_url"]; ok {
		h.trashIfReplaced(oldDoc, strOrNil(updates["chapter_document_url"]))
	}

	fresh, err := service.FindChapter(ctx, h.DB, ch.ChapterID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Chapter berhasil diperbarui", dto.FromModel(fresh))
}

/* =========================================================
   PUBLISH - PATCH /api/t/chapters/:id/publish
========================================================= */

func (h *ChapterController) Publish(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	ch, _, err := service.FindManagedChapter(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if *req.IsPublished && !ch.HasContent() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Chapter butuh video atau dokumen sebelum dipublish")
	}

	err = contentService.WithCourseLock(ctx, h.DB, ch.ChapterCourseID, func(tx *gorm.DB, course *courseModel.CourseModel) error {
		if !*req.IsPublished {
			if err := service.EnsureNotLastPublished(tx, course, ch); err != nil {
				return err
			}
		}
		return tx.Model(ch).Update("chapter_is_published", *req.IsPublished).Error
	})
	if err != nil {
		return respondTxError(c, err, "update status publish chapter")
	}
	ch.ChapterIsPublished = *req.IsPublished
	return helper.JsonUpdated(c, "Status publish diperbarui", dto.FromModel(ch))
}

/* =========================================================
   DELETE - DELETE /api/t/chapters/:id
   Hard delete, lalu posisi konten course dirapatkan.
   File video/dokumen/lampiran dipindah ke spam/.
========================================================= */

func (h *ChapterController) Delete(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	ch, _, err := service.FindManagedChapter(ctx, h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = contentService.WithCourseLock(ctx, h.DB, ch.ChapterCourseID, func(tx *gorm.DB, course *courseModel.CourseModel) error {
		if err := service.EnsureNotLastPublished(tx, course, ch); err != nil {
			return err
		}
		if err := tx.Where("chapter_attachment_chapter_id = ?", ch.ChapterID).
			Delete(&model.ChapterAttachmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.ChapterModel{}, "chapter_id = ?", ch.ChapterID).Error; err != nil {
			return err
		}
		return contentService.CompactPositions(tx, course.CourseID)
	})
	if err != nil {
		return respondTxError(c, err, "menghapus chapter")
	}

	urls := []*string{ch.ChapterVideoURL, ch.ChapterDocumentURL}
	for i := range ch.Attachments {
		urls = append(urls, &ch.Attachments[i].ChapterAttachmentURL)
	}
	for _, u := range urls {
		h.trashIfReplaced(u, nil)
	}

	log.Printf("[INFO] chapter deleted id=%s course=%s by=%s", ch.ChapterID, ch.ChapterCourseID, actor.UserID)
	return helper.JsonDeleted(c, "Chapter berhasil dihapus", fiber.Map{"chapter_id": ch.ChapterID})
}

/* =========================================================
   UPLOAD - POST /api/t/chapters/:id/video | /document
   multipart field "file"
========================================================= */

func (h *ChapterController) UploadVideo(c *fiber.Ctx) error {
	return h.upload(c, "video")
}

func (h *ChapterController) UploadDocument(c *fiber.Ctx) error {
	return h.upload(c, "document")
}

func (h *ChapterController) upload(c *fiber.Ctx, slot string) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := helperOSS.GetFormFile(c, "file", slot)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File wajib diisi")
	}

	kind := constants.DetectFileKindFromExt(fh.Filename)
	maxBytes := helperOSS.MaxDocumentBytes()
	switch slot {
	case "video":
		if kind != constants.FileKindVideo {
			return helper.JsonError(c, fiber.StatusBadRequest, "File harus berupa video")
		}
		maxBytes = helperOSS.MaxVideoBytes()
	case "document":
		if !constants.IsDocumentKind(kind) {
			return helper.JsonError(c, fiber.StatusBadRequest, "File harus berupa dokumen (pdf, doc, ppt, ...)")
		}
	}

	ch, course, err := service.FindManagedChapter(c.UserContext(), h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	up, err := h.Blob.UploadFile(ctx, helperOSS.ChapterFileDir(course.CourseID, ch.ChapterID, slot), fh, maxBytes)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var old *string
	updates := map[string]any{}
	if slot == "video" {
		old = ch.ChapterVideoURL
		updates["chapter_video_url"] = up.URL
	} else {
		old = ch.ChapterDocumentURL
		updates["chapter_document_url"] = up.URL
		updates["chapter_document_name"] = up.Name
	}
	if err := h.DB.WithContext(ctx).Model(ch).Updates(updates).Error; err != nil {
		_ = h.Blob.DeleteByPublicURL(ctx, up.URL)
		log.Printf("[ERROR] simpan %s chapter %s: %v", slot, ch.ChapterID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan URL file")
	}
	h.trashIfReplaced(old, &up.URL)

	if slot == "video" {
		ch.ChapterVideoURL = &up.URL
	} else {
		ch.ChapterDocumentURL = &up.URL
		ch.ChapterDocumentName = &up.Name
	}
	log.Printf("[INFO] chapter %s upload %s size=%d", ch.ChapterID, slot, up.Size)
	return helper.JsonUpdated(c, "File chapter diperbarui", dto.FromModel(ch))
}

// trashIfReplaced: pindahkan object lama ke spam/ kalau memang berganti.
func (h *ChapterController) trashIfReplaced(old, now *string) {
	if old == nil || *old == "" {
		return
	}
	if now != nil && *now == *old {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := h.Blob.MoveToSpam(ctx, *old); err != nil {
		log.Printf("[WARN] move to spam %s: %v", *old, err)
	}
}

func strOrNil(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}
