package handler

import (
	"storybuddy/internal/domain"
	"storybuddy/internal/dto"
	"storybuddy/internal/logger"
	"storybuddy/internal/service"
	"storybuddy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerationHandler handles the story, quiz and explanation endpoints
type GenerationHandler struct {
	service   service.GenerationService
	validator *validation.Validator
}

// NewGenerationHandler creates a new GenerationHandler instance
func NewGenerationHandler(service service.GenerationService, validator *validation.Validator) *GenerationHandler {
	return &GenerationHandler{
		service:   service,
		validator: validator,
	}
}

// StoryTeller godoc
// @Summary Tell a children's story
// @Description Generates a children's story in paragraphs from the given context
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.TextRequest true "Story context"
// @Success 200 {object} dto.TextResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /StoryTeller [post]
func (h *GenerationHandler) StoryTeller(c *fiber.Ctx) error {
	var req dto.TextRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid StoryTeller body", zap.Error(err))
		return domain.NewInvalidInputError(domain.MsgInvalidBody)
	}

	story, err := h.service.TellStory(c.UserContext(), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(dto.TextResponse{Response: story})
}

// QuizBot godoc
// @Summary Generate a quiz about a story
// @Description Asks for 10 multiple-choice questions about the story and returns the ones that parsed
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.TextRequest true "Story text"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /QuizBot [post]
func (h *GenerationHandler) QuizBot(c *fiber.Ctx) error {
	var req dto.TextRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid QuizBot body", zap.Error(err))
		return domain.NewInvalidInputError(domain.MsgInvalidBody)
	}

	quiz, err := h.service.GenerateQuiz(c.UserContext(), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(dto.QuizResponse{Response: quiz})
}

// LearnBot godoc
// @Summary Explain text and/or an image to a child
// @Description Explains the given text, base64 image, or both in simple words
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.ExplainRequest true "Text and/or base64 image"
// @Success 200 {object} dto.TextResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /LearnBot [post]
func (h *GenerationHandler) LearnBot(c *fiber.Ctx) error {
	var req dto.ExplainRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid LearnBot body", zap.Error(err))
		return domain.NewInvalidInputError(domain.MsgInvalidBody)
	}

	genReq, err := h.validator.ValidateExplainRequest(req)
	if err != nil {
		return err
	}

	explanation, err := h.service.Explain(c.UserContext(), genReq)
	if err != nil {
		return err
	}

	return c.JSON(dto.TextResponse{Response: explanation})
}
