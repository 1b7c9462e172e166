package controllers

import (
	"cloudmentor/backend/assessment"
	"cloudmentor/backend/config"
	"cloudmentor/backend/models"
	"cloudmentor/backend/progress"
	"cloudmentor/backend/store"
	"cloudmentor/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssessmentsController struct {
	Cfg         *config.Config
	Assessments *store.Collection[models.Assessment]
	Service     *assessment.Service
	Registry    *assessment.Registry
	Aggregator  *progress.Aggregator
}

func NewAssessmentsController(db *gorm.DB, cfg *config.Config, registry *assessment.Registry) *AssessmentsController {
	return &AssessmentsController{
		Cfg:         cfg,
		Assessments: store.NewCollection[models.Assessment](db, "assessments"),
		Service:     assessment.NewService(db),
		Registry:    registry,
		Aggregator:  progress.NewAggregator(db),
	}
}

// GetCourseAssessments lists a course's assessments with the caller's
// attempt history attached.
func (ac *AssessmentsController) GetCourseAssessments(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	assessments, err := ac.Assessments.Query(c.Context(),
		store.Filter{"course_id": c.Params("id")},
		&store.Order{Field: "created_at", Descending: true})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	result := []fiber.Map{}
	for _, a := range assessments {
		summary, err := ac.Aggregator.AssessmentSummary(c.Context(), userID, a.ID)
		if err != nil {
			return utils.ErrorJSON(c, err)
		}
		result = append(result, fiber.Map{
			"id":            a.ID,
			"title":         a.Title,
			"description":   a.Description,
			"passing_score": a.PassingScore,
			"attempts":      summary.Attempts,
			"best_score":    summary.BestScore,
			"passed_count":  summary.PassedCount,
			"is_completed":  summary.IsCompleted,
		})
	}

	return c.JSON(result)
}

// StartAttempt loads the assessment into a live attempt. Option
// correctness flags never leave the server.
func (ac *AssessmentsController) StartAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	attempt, err := ac.Service.Start(c.Context(), c.Params("id"), userID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	ac.Registry.Put(attempt)

	return c.JSON(attemptView(attempt))
}

func (ac *AssessmentsController) GetAttempt(c *fiber.Ctx) error {
	attempt, err := ac.Registry.Get(c.Params("attemptId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(attemptView(attempt))
}

func (ac *AssessmentsController) AnswerQuestion(c *fiber.Ctx) error {
	type AnswerInput struct {
		QuestionID string `json:"question_id"`
		Value      string `json:"value"`
	}

	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	attempt, err := ac.Registry.Get(c.Params("attemptId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	attempt.SelectAnswer(input.QuestionID, input.Value)
	return c.JSON(fiber.Map{
		"answered":     len(attempt.Answers),
		"questions":    len(attempt.Questions),
		"all_answered": attempt.AllAnswered(),
	})
}

func (ac *AssessmentsController) AdvanceAttempt(c *fiber.Ctx) error {
	attempt, err := ac.Registry.Get(c.Params("attemptId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	attempt.Advance()
	return c.JSON(fiber.Map{"index": attempt.Index})
}

func (ac *AssessmentsController) RetreatAttempt(c *fiber.Ctx) error {
	attempt, err := ac.Registry.Get(c.Params("attemptId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	attempt.Retreat()
	return c.JSON(fiber.Map{"index": attempt.Index})
}

// SubmitAttempt scores and persists the attempt. Completeness is the
// client's responsibility; an incomplete attempt is scored as-is.
func (ac *AssessmentsController) SubmitAttempt(c *fiber.Ctx) error {
	attempt, err := ac.Registry.Get(c.Params("attemptId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	result, err := ac.Service.Submit(c.Context(), attempt)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	ac.Registry.Remove(attempt.ID)

	return c.JSON(fiber.Map{
		"score":         result.Score,
		"passed":        result.Passed,
		"passing_score": attempt.Assessment.PassingScore,
		"completed_at":  result.CompletedAt,
	})
}

func (ac *AssessmentsController) GetSummary(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	summary, err := ac.Aggregator.AssessmentSummary(c.Context(), userID, c.Params("id"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(summary)
}

// attemptView strips option correctness flags from the wire shape.
func attemptView(a *assessment.Attempt) fiber.Map {
	questions := make([]fiber.Map, 0, len(a.Questions))
	for _, q := range a.Questions {
		options := make([]fiber.Map, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, fiber.Map{
				"id":          o.ID,
				"option_text": o.OptionText,
				"order":       o.SequenceOrder,
			})
		}
		questions = append(questions, fiber.Map{
			"id":            q.ID,
			"question_text": q.QuestionText,
			"question_type": q.QuestionType,
			"order":         q.SequenceOrder,
			"options":       options,
		})
	}
	return fiber.Map{
		"id":    a.ID,
		"state": a.State,
		"index": a.Index,
		"assessment": fiber.Map{
			"id":            a.Assessment.ID,
			"title":         a.Assessment.Title,
			"description":   a.Assessment.Description,
			"passing_score": a.Assessment.PassingScore,
		},
		"questions": questions,
		"answers":   a.Answers,
	}
}
