package controllers

import (
	"cloudmentor/backend/config"
	"cloudmentor/backend/models"
	"cloudmentor/backend/progress"
	"cloudmentor/backend/store"
	"cloudmentor/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	Cfg        *config.Config
	Courses    *store.Collection[models.Course]
	Lessons    *store.Collection[models.Lesson]
	Progress   *store.Collection[models.UserProgress]
	Aggregator *progress.Aggregator
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{
		Cfg:        cfg,
		Courses:    store.NewCollection[models.Course](db, "courses"),
		Lessons:    store.NewCollection[models.Lesson](db, "lessons"),
		Progress:   store.NewCollection[models.UserProgress](db, "user_progress"),
		Aggregator: progress.NewAggregator(db),
	}
}

// GetCourses lists published courses, optionally filtered by level and
// category, newest first, with the caller's enrollment progress attached.
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	filter := store.Filter{"is_published": true}
	if level := c.Query("level"); level != "" {
		filter["level"] = level
	}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	courses, err := cc.Courses.Query(c.Context(), filter,
		&store.Order{Field: "created_at", Descending: true})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	result := []fiber.Map{}
	for _, course := range courses {
		entry := fiber.Map{
			"id":                       course.ID,
			"title":                    course.Title,
			"description":              course.Description,
			"level":                    course.Level,
			"category":                 course.Category,
			"total_lessons":            course.TotalLessons,
			"estimated_duration_hours": course.EstimatedDurationHours,
		}
		row, err := cc.Progress.Get(c.Context(),
			store.Filter{"user_id": userID, "course_id": course.ID})
		if err == nil {
			entry["enrolled"] = true
			entry["progress_percentage"] = row.ProgressPercentage
			entry["lessons_completed"] = row.LessonsCompleted
		} else {
			entry["enrolled"] = false
		}
		result = append(result, entry)
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID := c.Params("id")
	course, err := cc.Courses.Get(c.Context(), store.Filter{"id": courseID})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	lessons, err := cc.Lessons.Query(c.Context(),
		store.Filter{"course_id": courseID},
		&store.Order{Field: "sequence_order"})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	response := fiber.Map{
		"course":  course,
		"lessons": lessons,
	}
	row, err := cc.Progress.Get(c.Context(),
		store.Filter{"user_id": userID, "course_id": courseID})
	if err == nil {
		response["progress"] = row
	}

	return c.JSON(response)
}

func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	row, err := cc.Aggregator.Enroll(c.Context(), userID, c.Params("id"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Enrolled",
		"progress": row,
	})
}

func (cc *CoursesController) CompleteLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	row, err := cc.Aggregator.CompleteLesson(c.Context(), userID, c.Params("id"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated",
		"progress": row,
	})
}
