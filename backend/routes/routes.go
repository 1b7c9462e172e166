package routes

import (
	"cloudmentor/backend/assessment"
	"cloudmentor/backend/config"
	"cloudmentor/backend/controllers"
	"cloudmentor/backend/mentor"
	"cloudmentor/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mentorClient *mentor.Client) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/enroll", coursesController.Enroll)
	courses.Post("/:id/lessons/complete", coursesController.CompleteLesson)

	// Assessments and attempts routes
	registry := assessment.NewRegistry()
	assessmentsController := controllers.NewAssessmentsController(db, cfg, registry)
	courses.Get("/:id/assessments", assessmentsController.GetCourseAssessments)

	assessments := app.Group("/api/assessments", authMiddleware)
	assessments.Post("/:id/attempts", assessmentsController.StartAttempt)
	assessments.Get("/:id/summary", assessmentsController.GetSummary)

	attempts := app.Group("/api/attempts", authMiddleware)
	attempts.Get("/:attemptId", assessmentsController.GetAttempt)
	attempts.Post("/:attemptId/answer", assessmentsController.AnswerQuestion)
	attempts.Post("/:attemptId/advance", assessmentsController.AdvanceAttempt)
	attempts.Post("/:attemptId/retreat", assessmentsController.RetreatAttempt)
	attempts.Post("/:attemptId/submit", assessmentsController.SubmitAttempt)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Get("/api/progress/overview", authMiddleware, progressController.GetOverview)

	// Mentor routes
	mentorController := controllers.NewMentorController(cfg, mentorClient)
	app.Post("/api/mentor/chat", authMiddleware, mentorController.Chat)
	app.Post("/api/mentor/transcribe", authMiddleware, mentorController.Transcribe)

	// Collaboration routes
	collaborationController := controllers.NewCollaborationController(db, cfg)
	collaboration := app.Group("/api/collaboration/rooms", authMiddleware)
	collaboration.Get("/", collaborationController.GetRooms)
	collaboration.Post("/", collaborationController.CreateRoom)
	collaboration.Post("/:id/invite", collaborationController.InviteByEmail)
	collaboration.Get("/:id/members", collaborationController.GetMembers)

	// Notifications routes
	notificationsController := controllers.NewNotificationsController(db, cfg)
	notifications := app.Group("/api/notifications", authMiddleware)
	notifications.Get("/", notificationsController.GetNotifications)
	notifications.Put("/:id/read", notificationsController.MarkRead)
}
