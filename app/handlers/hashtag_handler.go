// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/tagforge/tagforge/app/dto"
	businessflow "github.com/tagforge/tagforge/business_flow"
	"github.com/tagforge/tagforge/config"
	"github.com/tagforge/tagforge/utils"
	"github.com/tagforge/tagforge/validators"
)

// HashtagHandlerInterface defines the contract for hashtag handlers
type HashtagHandlerInterface interface {
	ListHashtags(c fiber.Ctx) error
	TrendingHashtags(c fiber.Ctx) error
	GetHashtag(c fiber.Ctx) error
	CreateHashtag(c fiber.Ctx) error
	UpdateHashtag(c fiber.Ctx) error
	PatchHashtag(c fiber.Ctx) error
	DeleteHashtag(c fiber.Ctx) error
	UploadIcon(c fiber.Ctx) error
	DownloadReport(c fiber.Ctx) error
}

// HashtagHandler handles hashtag-related HTTP requests
type HashtagHandler struct {
	flow          businessflow.TaggingFlow
	reportFlow    businessflow.ReportFlow
	uploadsConfig config.UploadsConfig
	viewSet       *ViewSet
	validator     *validator.Validate
}

// NewHashtagHandler creates a new hashtag handler
func NewHashtagHandler(flow businessflow.TaggingFlow, reportFlow businessflow.ReportFlow, uploadsConfig config.UploadsConfig) *HashtagHandler {
	return &HashtagHandler{
		flow:          flow,
		reportFlow:    reportFlow,
		uploadsConfig: uploadsConfig,
		viewSet:       NewHashtagViewSet(),
		validator:     validator.New(),
	}
}

func (h *HashtagHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *HashtagHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListHashtags returns a page of hashtags ordered by usage count
func (h *HashtagHandler) ListHashtags(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionList); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	var req dto.ListHashtagsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListHashtags(h.createRequestContext(c, "/api/v1/hashtags"), &req)
	if err != nil {
		if businessflow.IsValidationFailure(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "VALIDATION_ERROR", err.Error())
		}
		log.Println("List hashtags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list hashtags", "LIST_HASHTAGS_FAILED", nil)
	}

	rows, err := h.viewSet.Serialize(dto.ActionList, result.Hashtags)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to serialize hashtags", "SERIALIZATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"hashtags":   rows,
		"pagination": result.Pagination,
	})
}

// TrendingHashtags returns the most recently used hashtags
func (h *HashtagHandler) TrendingHashtags(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionList); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	result, err := h.flow.TrendingHashtags(h.createRequestContext(c, "/api/v1/hashtags/trending"))
	if err != nil {
		log.Println("Trending hashtags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list trending hashtags", "TRENDING_HASHTAGS_FAILED", nil)
	}

	rows, err := h.viewSet.Serialize(dto.ActionList, result.Hashtags)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to serialize hashtags", "SERIALIZATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"hashtags": rows,
		"cached":   result.Cached,
	})
}

// GetHashtag returns a single hashtag by ID
func (h *HashtagHandler) GetHashtag(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionRetrieve); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid hashtag ID", "INVALID_HASHTAG_ID", nil)
	}

	result, err := h.flow.GetHashtag(h.createRequestContext(c, "/api/v1/hashtags/:id"), id)
	if err != nil {
		if businessflow.IsHashtagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Hashtag not found", "HASHTAG_NOT_FOUND", nil)
		}
		log.Println("Get hashtag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get hashtag", "GET_HASHTAG_FAILED", nil)
	}

	body, err := h.viewSet.Serialize(dto.ActionRetrieve, *result)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to serialize hashtag", "SERIALIZATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Hashtag retrieved", body)
}

// CreateHashtag creates a hashtag explicitly
func (h *HashtagHandler) CreateHashtag(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionCreate); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	var req dto.CreateHashtagRequest
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

	result, err := h.flow.CreateHashtag(h.createRequestContext(c, "/api/v1/hashtags"), &req, metadata)
	if err != nil {
		if businessflow.IsHashtagAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Hashtag already exists", "HASHTAG_ALREADY_EXISTS", nil)
		}
		if businessflow.IsValidationFailure(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Hashtag validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Create hashtag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create hashtag", "CREATE_HASHTAG_FAILED", nil)
	}

	body, err := h.viewSet.Serialize(dto.ActionCreate, *result)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to serialize hashtag", "SERIALIZATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Hashtag created", body)
}

// UpdateHashtag replaces the hashtag's mutable fields
func (h *HashtagHandler) UpdateHashtag(c fiber.Ctx) error {
	return h.updateHashtag(c, dto.ActionUpdate)
}

// PatchHashtag updates only the provided fields
func (h *HashtagHandler) PatchHashtag(c fiber.Ctx) error {
	return h.updateHashtag(c, dto.ActionPartialUpdate)
}

func (h *HashtagHandler) updateHashtag(c fiber.Ctx, action dto.Action) error {
	if err := h.viewSet.Authorize(c, action); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid hashtag ID", "INVALID_HASHTAG_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/hashtags/:id")

	var result *dto.HashtagDTO
	if action == dto.ActionUpdate {
		var req dto.UpdateHashtagRequest
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
		result, err = h.flow.UpdateHashtag(ctx, id, &req, metadata)
	} else {
		var req dto.PatchHashtagRequest
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
		result, err = h.flow.PatchHashtag(ctx, id, &req, metadata)
	}

	if err != nil {
		if businessflow.IsHashtagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Hashtag not found", "HASHTAG_NOT_FOUND", nil)
		}
		if businessflow.IsValidationFailure(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Hashtag validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Update hashtag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update hashtag", "UPDATE_HASHTAG_FAILED", nil)
	}

	body, err := h.viewSet.Serialize(action, *result)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to serialize hashtag", "SERIALIZATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Hashtag updated", body)
}

// DeleteHashtag removes a hashtag and its associations
func (h *HashtagHandler) DeleteHashtag(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionDestroy); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid hashtag ID", "INVALID_HASHTAG_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	if err := h.flow.DeleteHashtag(h.createRequestContext(c, "/api/v1/hashtags/:id"), id, metadata); err != nil {
		if businessflow.IsHashtagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Hashtag not found", "HASHTAG_NOT_FOUND", nil)
		}
		log.Println("Delete hashtag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete hashtag", "DELETE_HASHTAG_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Hashtag deleted", nil)
}

// UploadIcon validates and stores a hashtag icon
func (h *HashtagHandler) UploadIcon(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionUpdate); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid hashtag ID", "INVALID_HASHTAG_ID", nil)
	}

	header, err := c.FormFile("icon")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Icon file is required", "MISSING_ICON_FILE", nil)
	}

	file, err := validators.FromMultipart(header)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read icon file", "INVALID_REQUEST", err.Error())
	}

	rules := validators.IconRules(
		h.uploadsConfig.IconMinSize,
		h.uploadsConfig.IconMaxSize,
		h.uploadsConfig.IconExtensions,
		h.uploadsConfig.IconMinWidth,
		h.uploadsConfig.IconMinHeight,
		h.uploadsConfig.IconMaxWidth,
		h.uploadsConfig.IconMaxHeight,
	)
	if err := validators.Apply(file, rules...); err != nil {
		var details any
		if ve, ok := err.(*validators.ValidationError); ok {
			details = ve.Params
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "ICON_VALIDATION_FAILED", details)
	}

	iconPath := filepath.Join(h.uploadsConfig.Dir, fmt.Sprintf("%s.%s", id, file.Extension()))
	if err := os.MkdirAll(h.uploadsConfig.Dir, 0o755); err != nil {
		log.Println("Create uploads dir failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store icon", "ICON_STORE_FAILED", nil)
	}
	if err := os.WriteFile(iconPath, file.Data, 0o644); err != nil {
		log.Println("Write icon failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store icon", "ICON_STORE_FAILED", nil)
	}

	result, err := h.flow.SetHashtagIcon(h.createRequestContext(c, "/api/v1/hashtags/:id/icon"), id, iconPath)
	if err != nil {
		if businessflow.IsHashtagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Hashtag not found", "HASHTAG_NOT_FOUND", nil)
		}
		log.Println("Set hashtag icon failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update hashtag", "UPDATE_HASHTAG_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Icon uploaded", dto.UploadIconResponse{
		Message:  "Icon uploaded",
		IconPath: *result.IconPath,
	})
}

// DownloadReport streams the hashtag usage report as an Excel workbook
func (h *HashtagHandler) DownloadReport(c fiber.Ctx) error {
	if err := h.viewSet.Authorize(c, dto.ActionList); err != nil {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Permission denied", "PERMISSION_DENIED", err.Error())
	}

	filename, data, err := h.reportFlow.DownloadHashtagsExcel(h.createRequestContext(c, "/api/v1/hashtags/report"))
	if err != nil {
		log.Println("Download hashtags report failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build report", "REPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func (h *HashtagHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
