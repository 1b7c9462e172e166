package controllers

import (
	"cloudmentor/backend/collab"
	"cloudmentor/backend/config"
	"cloudmentor/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CollaborationController struct {
	Cfg     *config.Config
	Manager *collab.Manager
}

func NewCollaborationController(db *gorm.DB, cfg *config.Config) *CollaborationController {
	return &CollaborationController{Cfg: cfg, Manager: collab.NewManager(db)}
}

func (rc *CollaborationController) CreateRoom(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	type RoomInput struct {
		Title string `json:"title"`
	}

	var input RoomInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	room, err := rc.Manager.CreateRoom(c.Context(), userID, input.Title)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Study group created",
		"room":    room,
	})
}

func (rc *CollaborationController) GetRooms(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	rooms, err := rc.Manager.ListRooms(c.Context(), userID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(rooms)
}

// InviteByEmail is a silent no-op when no user matches the email, so
// the endpoint never leaks whether an address is registered.
func (rc *CollaborationController) InviteByEmail(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, rc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	type InviteInput struct {
		Email string `json:"email"`
	}

	var input InviteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := rc.Manager.InviteByEmail(c.Context(), c.Params("id"), input.Email); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invite processed"})
}

func (rc *CollaborationController) GetMembers(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, rc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	members, err := rc.Manager.Members(c.Context(), c.Params("id"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}
