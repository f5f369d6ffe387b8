package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseController "elearning_backend/internals/features/courses/courses/controller"
	helperOSS "elearning_backend/internals/helpers/oss"
)

// CoursePublicRoutes: /api/public/courses (JWT opsional)
func CoursePublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := courseController.NewCoursePublicController(db)

	g := public.Group("/courses")
	g.Get("/", ctrl.List)
	g.Get("/:slug", ctrl.Detail)
}

// CourseUserRoutes: /api/u/courses
func CourseUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := courseController.NewCourseUserController(db)

	g := user.Group("/courses")
	g.Get("/recommended", ctrl.Recommended)
	g.Get("/mine", ctrl.Mine)
}

// CourseTeacherRoutes: /api/t/courses (teacher & admin)
func CourseTeacherRoutes(teacher fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	ctrl := courseController.NewCourseController(db, blob)

	g := teacher.Group("/courses")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Patch("/:id/publish", ctrl.Publish)
	g.Post("/:id/image", ctrl.UploadImage)
	g.Delete("/:id", ctrl.Delete)
}
