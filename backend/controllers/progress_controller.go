package controllers

import (
	"cloudmentor/backend/config"
	"cloudmentor/backend/progress"
	"cloudmentor/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	Cfg        *config.Config
	Aggregator *progress.Aggregator
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{Cfg: cfg, Aggregator: progress.NewAggregator(db)}
}

// GetOverview godoc
// @Summary Get progress overview
// @Description Returns enrollment, score, and gamification statistics
// @Tags progress
// @Produce json
// @Success 200 {object} progress.Overview
// @Failure 401 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /progress/overview [get]
func (pc *ProgressController) GetOverview(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	overview, err := pc.Aggregator.Overview(c.Context(), userID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(overview)
}
