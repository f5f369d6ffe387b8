package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	chapterController "elearning_backend/internals/features/courses/chapters/controller"
	helperOSS "elearning_backend/internals/helpers/oss"
)

// ChapterUserRoutes: /api/u/chapters
func ChapterUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := chapterController.NewChapterUserController(db)

	user.Get("/chapters/:id", ctrl.Get)
}

// ChapterTeacherRoutes: /api/t (teacher & admin)
func ChapterTeacherRoutes(teacher fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	ctrl := chapterController.NewChapterController(db, blob)

	teacher.Post("/courses/:id/chapters", ctrl.Create)

	g := teacher.Group("/chapters")
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Patch("/:id/publish", ctrl.Publish)
	g.Delete("/:id", ctrl.Delete)

	g.Post("/:id/video", ctrl.UploadVideo)
	g.Post("/:id/document", ctrl.UploadDocument)

	g.Post("/:id/attachments", ctrl.AddAttachments)
	g.Put("/:id/attachments/reorder", ctrl.ReorderAttachments)
	g.Delete("/:id/attachments/:attachmentId", ctrl.DeleteAttachment)
}
