package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	chapterRoute "elearning_backend/internals/features/courses/chapters/route"
	contentRoute "elearning_backend/internals/features/courses/contents/route"
	courseRoute "elearning_backend/internals/features/courses/courses/route"
	progressRoute "elearning_backend/internals/features/courses/progress/route"
	quizRoute "elearning_backend/internals/features/courses/quizzes/route"
	helperOSS "elearning_backend/internals/helpers/oss"
)

func CoursePublicRoutes(public fiber.Router, db *gorm.DB) {
	courseRoute.CoursePublicRoutes(public, db)
}

func CourseUserRoutes(user fiber.Router, db *gorm.DB) {
	courseRoute.CourseUserRoutes(user, db)
	chapterRoute.ChapterUserRoutes(user, db)
	quizRoute.QuizUserRoutes(user, db)
	progressRoute.ProgressUserRoutes(user, db)
}

// CourseTeacherRoutes: authoring (teacher & admin)
func CourseTeacherRoutes(teacher fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	courseRoute.CourseTeacherRoutes(teacher, db, blob)
	contentRoute.ContentTeacherRoutes(teacher, db)
	chapterRoute.ChapterTeacherRoutes(teacher, db, blob)
	quizRoute.QuizTeacherRoutes(teacher, db)
}
