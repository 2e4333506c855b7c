package routes

import (
	"log"

	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
	"learnhub/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	activity := services.NewActivityService(db, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, activity)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Get("/api/progress", authMiddleware, progressController.GetProgress)
	app.Get("/api/progress/overview", authMiddleware, progressController.GetProgressOverview)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, activity)
	lessonsController := controllers.NewLessonsController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetUserCourses)
	courses.Get("/available", coursesController.GetAvailableCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/enroll", coursesController.Enroll)
	courses.Post("/:id/progress", coursesController.UpdateCourseProgress)
	courses.Get("/:id/lessons/:lessonId", lessonsController.GetLesson)
	courses.Get("/:id/analytics", adminMiddleware, coursesController.GetCourseAnalytics)

	// Notes and bookmarks
	notesController := controllers.NewNotesController(db, cfg)
	courses.Post("/:id/lessons/:lessonId/notes", notesController.AddNote)
	courses.Get("/:id/lessons/:lessonId/notes", notesController.GetNotes)
	courses.Delete("/:id/lessons/:lessonId/notes/:noteId", notesController.DeleteNote)
	courses.Post("/:id/lessons/:lessonId/bookmarks", notesController.AddBookmark)
	app.Get("/api/bookmarks", authMiddleware, notesController.GetBookmarks)
	app.Delete("/api/bookmarks/:bookmarkId", authMiddleware, notesController.DeleteBookmark)

	// Quiz and attempt routes
	quizzesController := controllers.NewQuizzesController(db, cfg)
	attemptsController := controllers.NewAttemptsController(db, cfg, activity)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/:id", quizzesController.GetQuiz)
	quizzes.Post("/:id/attempts", attemptsController.StartAttempt)
	quizzes.Get("/:id/attempts", attemptsController.ListAttempts)
	quizzes.Get("/:id/attempts/best", attemptsController.GetBestAttempt)
	quizzes.Get("/:id/statistics", adminMiddleware, quizzesController.GetQuizStatistics)

	attempts := app.Group("/api/attempts", authMiddleware)
	attempts.Get("/:id", attemptsController.GetAttempt)
	attempts.Put("/:id/answer", attemptsController.SaveAnswer)
	attempts.Post("/:id/submit", attemptsController.SubmitAttempt)

	// Admin routes for courses and lessons
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Put("/:id", coursesController.UpdateCourse)
	adminCourses.Post("/:id/lessons", lessonsController.AddLesson)
	adminCourses.Put("/:id/lessons/:lessonId", lessonsController.UpdateLesson)
	adminCourses.Delete("/:id/lessons/:lessonId", lessonsController.DeleteLesson)
	adminCourses.Put("/:id/lessons-order", lessonsController.ReorderLessons)
	adminCourses.Post("/:id/quizzes", quizzesController.CreateQuiz)

	// Admin routes for quizzes
	adminQuizzes := app.Group("/api/admin/quizzes", authMiddleware, adminMiddleware)
	adminQuizzes.Put("/:id", quizzesController.UpdateQuiz)
	adminQuizzes.Delete("/:id", quizzesController.DeleteQuiz)
	adminQuizzes.Post("/:id/questions", quizzesController.AddQuestion)
	adminQuizzes.Put("/:id/questions/:questionId", quizzesController.UpdateQuestion)
	adminQuizzes.Delete("/:id/questions/:questionId", quizzesController.DeleteQuestion)
}
