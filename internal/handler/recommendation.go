package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/service"
	"github.com/sanctuarysound/api/pkg/response"
)

type RecommendationHandler struct {
	service   *service.RecommendationService
	validator *validator.Validate
}

func NewRecommendationHandler(svc *service.RecommendationService, v *validator.Validate) *RecommendationHandler {
	return &RecommendationHandler{
		service:   svc,
		validator: v,
	}
}

func (h *RecommendationHandler) parse(c *fiber.Ctx) (*model.GenerateRequest, error) {
	var req model.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return nil, response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}
	return &req, nil
}

// Generate handles POST /api/recommendations/generate
func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if req == nil {
		return err
	}
	return response.OK(c, h.service.Generate(req.Service))
}

// StartJob handles POST /api/recommendations/jobs. A later job for the same
// service ID supersedes this one.
func (h *RecommendationHandler) StartJob(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if req == nil {
		return err
	}

	result, err := h.service.StartJob(c.UserContext(), req.Service)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.Accepted(c, result)
}

// Status handles GET /api/recommendations/status/:jobId
func (h *RecommendationHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetStatus(c.UserContext(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, result)
}

// Result handles GET /api/recommendations/result/:jobId
func (h *RecommendationHandler) Result(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetResult(c.UserContext(), jobID)
	switch {
	case err == nil:
		return response.OK(c, result)
	case errors.Is(err, service.ErrJobNotFound):
		return response.NotFound(c, "Job not found")
	case errors.Is(err, service.ErrJobNotCompleted):
		return response.BadRequest(c, response.CodeJobNotReady, "Job not completed yet")
	case errors.Is(err, service.ErrJobSuperseded):
		return response.Conflict(c, response.CodeJobSuperseded, "A newer request for this service replaced the job", nil)
	case errors.Is(err, service.ErrJobFailed):
		return response.Error(c, fiber.StatusUnprocessableEntity, response.CodeJobFailed, "Job failed", nil)
	default:
		return response.ServiceError(c, err.Error())
	}
}
