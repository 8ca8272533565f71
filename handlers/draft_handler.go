package handlers

import (
	"errors"
	"net/http"

	"casedraft-backend/models"
	"casedraft-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DraftHandler handles HTTP requests for draft generation and
// persistence
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// RegisterRoutes attaches the draft endpoints to the router
func (h *DraftHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/cases/:id/draft-preview", h.GenerateDraftPreview)
		api.POST("/cases/:id/draft-export", h.ExportDraft)
		api.GET("/cases/:id/precedents", h.SearchPrecedents)
		api.GET("/cases/:id/exports", h.ListExports)
		api.GET("/cases/:id/exports/:exportId", h.DownloadExport)
		api.DELETE("/cases/:id/exports/:exportId", h.DeleteExport)
		api.GET("/cases/:id/drafts", h.ListDrafts)
		api.POST("/cases/:id/drafts", h.CreateDraft)
		api.GET("/cases/:id/drafts/:draftId", h.GetDraft)
		api.PUT("/cases/:id/drafts/:draftId", h.UpdateDraft)
	}
}

// GenerateDraftPreview handles POST /api/cases/:id/draft-preview
func (h *DraftHandler) GenerateDraftPreview(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	var req service.DraftPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.draftService.GenerateDraftPreview(c.Request.Context(), userID, caseID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ExportDraft handles POST /api/cases/:id/draft-export
func (h *DraftHandler) ExportDraft(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	var req service.DraftExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.draftService.ExportDraft(c.Request.Context(), userID, caseID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// SearchPrecedents handles GET /api/cases/:id/precedents
func (h *DraftHandler) SearchPrecedents(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	precedents, err := h.draftService.SearchPrecedents(c.Request.Context(), userID, caseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"precedents": precedents},
	})
}

// ListExports handles GET /api/cases/:id/exports
func (h *DraftHandler) ListExports(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	records, err := h.draftService.ListExports(c.Request.Context(), userID, caseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"exports": records},
	})
}

// DownloadExport handles GET /api/cases/:id/exports/:exportId
func (h *DraftHandler) DownloadExport(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	exportID, err := uuid.Parse(c.Param("exportId"))
	if err != nil {
		badRequest(c, "INVALID_EXPORT_ID", "Invalid export ID format")
		return
	}

	file, err := h.draftService.DownloadExport(c.Request.Context(), userID, caseID, exportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// DeleteExport handles DELETE /api/cases/:id/exports/:exportId
func (h *DraftHandler) DeleteExport(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	exportID, err := uuid.Parse(c.Param("exportId"))
	if err != nil {
		badRequest(c, "INVALID_EXPORT_ID", "Invalid export ID format")
		return
	}

	if err := h.draftService.DeleteExport(c.Request.Context(), userID, caseID, exportID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": exportID},
	})
}

// CreateDraft handles POST /api/cases/:id/drafts
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	var req service.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	draft, err := h.draftService.CreateDraft(c.Request.Context(), userID, caseID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"draft": draft},
	})
}

// ListDrafts handles GET /api/cases/:id/drafts
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	drafts, err := h.draftService.ListDrafts(c.Request.Context(), userID, caseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if drafts == nil {
		drafts = []*models.Draft{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"drafts": drafts},
	})
}

// GetDraft handles GET /api/cases/:id/drafts/:draftId
func (h *DraftHandler) GetDraft(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	draftID, err := uuid.Parse(c.Param("draftId"))
	if err != nil {
		badRequest(c, "INVALID_DRAFT_ID", "Invalid draft ID format")
		return
	}

	draft, err := h.draftService.GetDraft(c.Request.Context(), userID, caseID, draftID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"draft": draft},
	})
}

// UpdateDraft handles PUT /api/cases/:id/drafts/:draftId
func (h *DraftHandler) UpdateDraft(c *gin.Context) {
	userID, caseID, ok := h.identify(c)
	if !ok {
		return
	}

	draftID, err := uuid.Parse(c.Param("draftId"))
	if err != nil {
		badRequest(c, "INVALID_DRAFT_ID", "Invalid draft ID format")
		return
	}

	var req service.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	draft, err := h.draftService.UpdateDraft(c.Request.Context(), userID, caseID, draftID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"draft": draft},
	})
}

// identify parses the requesting user from the X-User-ID header and the
// case ID from the path
func (h *DraftHandler) identify(c *gin.Context) (userID, caseID uuid.UUID, ok bool) {
	userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid X-User-ID header",
			},
		})
		return uuid.Nil, uuid.Nil, false
	}

	caseID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_CASE_ID", "Invalid case ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, caseID, true
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps service errors onto the JSON error envelope
func respondServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERMISSION_DENIED",
				"message": "You do not have access to this case",
			},
		})
	case errors.Is(err, service.ErrCaseNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrExportNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": err.Error(),
			},
		})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": ve.Message,
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
	}
}
