package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sanctuarysound/api/internal/analysis"
	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/service"
	"github.com/sanctuarysound/api/pkg/response"
)

type AnalysisHandler struct {
	service   *service.AnalysisService
	validator *validator.Validate
}

func NewAnalysisHandler(svc *service.AnalysisService, v *validator.Validate) *AnalysisHandler {
	return &AnalysisHandler{
		service:   svc,
		validator: v,
	}
}

// Analyze handles POST /api/analysis
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req model.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Analyze(req)
	if err != nil {
		if errors.Is(err, analysis.ErrConsoleMismatch) {
			return response.Conflict(c, response.CodeConsoleMismatch, "Snapshot console does not match the recommendation", fiber.Map{
				"snapshot":       req.Snapshot.Console,
				"recommendation": req.Recommendation.Service.Console,
			})
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, result)
}

// Infer handles POST /api/inference
func (h *AnalysisHandler) Infer(c *fiber.Ctx) error {
	var req model.InferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	return response.OK(c, h.service.Infer(req.Labels))
}

// Consoles handles GET /api/consoles
func (h *AnalysisHandler) Consoles(c *fiber.Ctx) error {
	return response.OK(c, model.ConsoleListResponse{Consoles: model.ConsoleProfiles()})
}
