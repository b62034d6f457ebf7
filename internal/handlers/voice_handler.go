package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lightlog-app/backend/internal/dto"
	"github.com/lightlog-app/backend/internal/middleware"
	"github.com/lightlog-app/backend/internal/services"
)

type VoiceHandler struct {
	voiceService *services.VoiceService
}

func NewVoiceHandler(voiceService *services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

func (h *VoiceHandler) Upload(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "audio file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read audio file",
		})
	}
	defer file.Close()

	resp, err := h.voiceService.Transcribe(file, fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		var procErr *services.VoiceProcessingError
		switch {
		case errors.Is(err, services.ErrContentInappropriate):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.As(err, &procErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: procErr.Message,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(resp)
}

func (h *VoiceHandler) SupportedFormats(c *fiber.Ctx) error {
	return c.JSON(h.voiceService.SupportedFormats())
}
