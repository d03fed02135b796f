// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/tagforge/tagforge/app/dto"
	"github.com/tagforge/tagforge/app/middleware"
	businessflow "github.com/tagforge/tagforge/business_flow"
	"github.com/tagforge/tagforge/utils"
)

// TaggingHandlerInterface defines the contract for tagging handlers
type TaggingHandlerInterface interface {
	TagObject(c fiber.Ctx) error
	UntagObject(c fiber.Ctx) error
	ListObjectTags(c fiber.Ctx) error
}

// TaggingHandler handles object tagging HTTP requests
type TaggingHandler struct {
	flow      businessflow.TaggingFlow
	validator *validator.Validate
}

// NewTaggingHandler creates a new tagging handler
func NewTaggingHandler(flow businessflow.TaggingFlow) *TaggingHandler {
	return &TaggingHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *TaggingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TaggingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// TagObject attaches a hashtag to an object
func (h *TaggingHandler) TagObject(c fiber.Ctx) error {
	var req dto.TagObjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.TagObject(h.createRequestContext(c, "/api/v1/tags"), &req, metadata)
	if err != nil {
		middleware.RecordTagOperation("tag", "failure")
		if businessflow.IsAlreadyTagged(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Object is already tagged with this hashtag", "ALREADY_TAGGED", nil)
		}
		if businessflow.IsValidationFailure(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Tag object failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to tag object", "TAG_OBJECT_FAILED", nil)
	}

	middleware.RecordTagOperation("tag", "success")
	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// UntagObject detaches a hashtag from an object
func (h *TaggingHandler) UntagObject(c fiber.Ctx) error {
	var req dto.UntagObjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.UntagObject(h.createRequestContext(c, "/api/v1/tags"), &req, metadata)
	if err != nil {
		middleware.RecordTagOperation("untag", "failure")
		if businessflow.IsHashtagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Hashtag not found", "HASHTAG_NOT_FOUND", nil)
		}
		if businessflow.IsAssociationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Object is not tagged with this hashtag", "ASSOCIATION_NOT_FOUND", nil)
		}
		if businessflow.IsValidationFailure(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Untag object failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to untag object", "UNTAG_OBJECT_FAILED", nil)
	}

	middleware.RecordTagOperation("untag", "success")
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ListObjectTags returns the hashtags attached to an object
func (h *TaggingHandler) ListObjectTags(c fiber.Ctx) error {
	contentType := c.Params("type")
	if contentType == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Content type is required", "MISSING_CONTENT_TYPE", nil)
	}

	objectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid object ID", "INVALID_OBJECT_ID", nil)
	}

	result, err := h.flow.ListObjectTags(h.createRequestContext(c, "/api/v1/objects/:type/:id/tags"), contentType, objectID)
	if err != nil {
		log.Println("List object tags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list object tags", "LIST_OBJECT_TAGS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

func (h *TaggingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
