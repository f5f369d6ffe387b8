package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	quizController "elearning_backend/internals/features/courses/quizzes/controller"
)

// QuizUserRoutes: /api/u (siswa mengerjakan quiz)
func QuizUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := quizController.NewQuizUserController(db)

	user.Post("/quizzes/:id/start", ctrl.Start)
	user.Get("/quizzes/:id/results", ctrl.MyResults)
	user.Post("/quiz-results/:id/submit", ctrl.Submit)
	user.Get("/quiz-results/:id", ctrl.GetResult)
}

// QuizTeacherRoutes: /api/t (teacher & admin)
func QuizTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	ctrl := quizController.NewQuizController(db)

	teacher.Post("/courses/:id/quizzes", ctrl.Create)

	q := teacher.Group("/quizzes")
	q.Get("/:id", ctrl.Get)
	q.Patch("/:id", ctrl.Update)
	q.Delete("/:id", ctrl.Delete)
	q.Get("/:id/results", ctrl.Results)

	q.Get("/:id/questions", ctrl.ListQuestions)
	q.Post("/:id/questions", ctrl.CreateQuestion)
	q.Put("/:id/questions/reorder", ctrl.ReorderQuestions)

	qs := teacher.Group("/questions")
	qs.Patch("/:id", ctrl.UpdateQuestion)
	qs.Delete("/:id", ctrl.DeleteQuestion)

	teacher.Get("/quiz-results/:id", ctrl.ResultDetail)
}
