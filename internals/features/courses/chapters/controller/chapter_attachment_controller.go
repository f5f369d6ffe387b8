package controller

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	"elearning_backend/internals/features/courses/chapters/dto"
	"elearning_backend/internals/features/courses/chapters/model"
	"elearning_backend/internals/features/courses/chapters/service"
	courseService "elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
	helperOSS "elearning_backend/internals/helpers/oss"
)

const maxAttachmentsPerRequest = 10

/* =========================================================
   ADD - POST /api/t/chapters/:id/attachments
   multipart: files[] / files / file (maks 10 per request)
   JSON     : {"name": "...", "url": "https://..."}
========================================================= */

func (h *ChapterController) AddAttachments(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ch, course, err := service.FindManagedChapter(c.UserContext(), h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []model.ChapterAttachmentModel
	var uploaded []string

	if helperOSS.IsMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Form multipart tidak valid")
		}
		files := helperOSS.CollectUploadFiles(form)
		if len(files) == 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada file yang diupload")
		}
		if len(files) > maxAttachmentsPerRequest {
			return helper.JsonError(c, fiber.StatusBadRequest, "Maksimal 10 file per upload")
		}

		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()
		dir := helperOSS.ChapterFileDir(course.CourseID, ch.ChapterID, "attachments")
		for _, fh := range files {
			up, err := h.Blob.UploadFile(ctx, dir, fh, helperOSS.MaxDocumentBytes())
			if err != nil {
				h.rollbackUploads(uploaded)
				return helper.FromFiberError(c, err)
			}
			uploaded = append(uploaded, up.URL)
			rows = append(rows, model.ChapterAttachmentModel{
				ChapterAttachmentChapterID: ch.ChapterID,
				ChapterAttachmentName:      truncate(up.Name, 200),
				ChapterAttachmentURL:       up.URL,
				ChapterAttachmentKind:      up.Kind,
			})
		}
	} else {
		var req dto.AttachmentURLRequest
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
		req.Name = strings.TrimSpace(req.Name)
		req.URL = strings.TrimSpace(req.URL)
		if err := h.Validator.Struct(&req); err != nil {
			return helper.ValidationError(c, err)
		}
		rows = append(rows, model.ChapterAttachmentModel{
			ChapterAttachmentChapterID: ch.ChapterID,
			ChapterAttachmentName:      req.Name,
			ChapterAttachmentURL:       req.URL,
			ChapterAttachmentKind:      constants.DetectFileKindFromExt(dto.NameFromURL(req.URL)),
		})
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		pos, err := service.NextAttachmentPosition(tx, ch.ChapterID)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].ChapterAttachmentPosition = pos + i
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		h.rollbackUploads(uploaded)
		log.Printf("[ERROR] add attachments chapter %s: %v", ch.ChapterID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan lampiran")
	}

	return helper.JsonCreated(c, "Lampiran ditambahkan", dto.FromAttachments(rows))
}

/* =========================================================
   DELETE - DELETE /api/t/chapters/:id/attachments/:attachmentId
========================================================= */

func (h *ChapterController) DeleteAttachment(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attID, err := helper.ParseUUIDParam(c, "attachmentId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ch, _, err := service.FindManagedChapter(c.UserContext(), h.DB, id, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var target *model.ChapterAttachmentModel
	for i := range ch.Attachments {
		if ch.Attachments[i].ChapterAttachmentID == attID {
			target = &ch.Attachments[i]
			break
		}
	}
	if target == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Lampiran tidak ditemukan")
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChapterAttachmentModel{}, "chapter_attachment_id = ?", attID).Error; err != nil {
			return err
		}
		return service.CompactAttachments(tx, ch.ChapterID)
	})
	if err != nil {
		log.Printf("[ERROR] delete attachment %s: %v", attID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus lampiran")
	}
	h.trashIfReplaced(&target.ChapterAttachmentURL, nil)

	return helper.JsonDeleted(c, "Lampiran dihapus", fiber.Map{"id": attID})
}

/* =========================================================
   REORDER - PUT /api/t/chapters/:id/attachments/reorder
   Body: {"ids": ["...", "..."]} urutan baru, harus lengkap.
========================================================= */

func (h *ChapterController) ReorderAttachments(c *fiber.Ctx) error {
	actor, err := courseService.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ReorderAttachmentsRequest
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
	if err := service.ValidateAttachmentOrder(ch.Attachments, req.IDs); err != nil {
		return helper.FromFiberError(c, err)
	}

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, attID := range req.IDs {
			if err := tx.Model(&model.ChapterAttachmentModel{}).
				Where("chapter_attachment_id = ? AND chapter_attachment_chapter_id = ?", attID, ch.ChapterID).
				Update("chapter_attachment_position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] reorder attachments chapter %s: %v", ch.ChapterID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah urutan lampiran")
	}

	fresh, err := service.FindChapter(ctx, h.DB, ch.ChapterID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Urutan lampiran diperbarui", dto.FromAttachments(fresh.Attachments))
}

func (h *ChapterController) rollbackUploads(urls []string) {
	if len(urls) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	for _, u := range urls {
		if err := h.Blob.DeleteByPublicURL(ctx, u); err != nil {
			log.Printf("[WARN] rollback upload %s: %v", u, err)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
