package controllers

import (
	"bufio"
	"context"
	"io"

	"cloudmentor/backend/config"
	"cloudmentor/backend/mentor"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type MentorController struct {
	Cfg    *config.Config
	Client *mentor.Client
}

func NewMentorController(cfg *config.Config, client *mentor.Client) *MentorController {
	return &MentorController{Cfg: cfg, Client: client}
}

// Chat relays the transcript to the mentor model and streams the reply
// back as plain text chunks. Upstream failures before the first byte
// are a plain-text non-2xx response; a drop mid-stream simply ends the
// body, preserving what was already delivered.
func (mc *MentorController) Chat(c *fiber.Ctx) error {
	type ChatInput struct {
		Messages []mentor.Message `json:"messages"`
	}

	var input ChatInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Cannot parse JSON")
	}

	// The upstream body outlives this handler; once issued the call is
	// not cancellable.
	stream, err := mc.Client.OpenStream(context.Background(), input.Messages)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).SendString("Error processing request")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer stream.Close()
		for {
			delta, err := stream.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				// Terminal transport error; partial transcript stands.
				return
			}
			if _, err := w.WriteString(delta); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

// Transcribe accepts a multipart "audio" field and returns {text}. The
// backing implementation is a stub, not real speech-to-text.
func (mc *MentorController) Transcribe(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No audio provided",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to transcribe audio",
		})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to transcribe audio",
		})
	}

	text, err := mc.Client.Transcribe(c.Context(), audio)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to transcribe audio",
		})
	}

	return c.JSON(fiber.Map{"text": text})
}
