package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lightlog-app/backend/internal/dto"
	"github.com/lightlog-app/backend/internal/middleware"
	"github.com/lightlog-app/backend/internal/services"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) ChecklistSummary(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be in YYYY-MM-DD format",
		})
	}

	outcome, err := h.aiService.ChecklistSummary(userID, req.Activities, date)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(dto.AITextResponse{Text: outcome.Text, Source: string(outcome.Source)})
}

func (h *AIHandler) PositiveReinterpretation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ReinterpretationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.DiaryContent == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "diaryContent is required",
		})
	}

	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be in YYYY-MM-DD format",
		})
	}

	outcome, err := h.aiService.PositiveReinterpretation(userID, req.DiaryContent, date)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(dto.AITextResponse{Text: outcome.Text, Source: string(outcome.Source)})
}

func (h *AIHandler) DailyFeedback(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.DailyFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be in YYYY-MM-DD format",
		})
	}

	outcome, err := h.aiService.DailyFeedback(userID, date)
	if err != nil {
		return aiError(c, err)
	}

	return c.JSON(dto.AITextResponse{Text: outcome.Text, Source: string(outcome.Source)})
}

func aiError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrContentInappropriate) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func parseDateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(dto.DateLayout, raw)
}
