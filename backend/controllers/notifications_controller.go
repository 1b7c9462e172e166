package controllers

import (
	"cloudmentor/backend/config"
	"cloudmentor/backend/models"
	"cloudmentor/backend/store"
	"cloudmentor/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationsController struct {
	Cfg           *config.Config
	Notifications *store.Collection[models.Notification]
}

func NewNotificationsController(db *gorm.DB, cfg *config.Config) *NotificationsController {
	return &NotificationsController{
		Cfg:           cfg,
		Notifications: store.NewCollection[models.Notification](db, "notifications"),
	}
}

func (nc *NotificationsController) GetNotifications(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	rows, err := nc.Notifications.Query(c.Context(),
		store.Filter{"user_id": userID},
		&store.Order{Field: "created_at", Descending: true})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(rows)
}

func (nc *NotificationsController) MarkRead(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	row, err := nc.Notifications.Update(c.Context(),
		store.Filter{"id": c.Params("id"), "user_id": userID},
		map[string]interface{}{"is_read": true})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(row)
}
