package handlers

import (
	"errors"
	"mime"
	"net/http"

	"lumina_backend/internal/logger"
	"lumina_backend/internal/middleware"
	"lumina_backend/internal/models"
	"lumina_backend/internal/services"
	"lumina_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	*BaseHandler
	moderationService services.ModerationService
}

func NewSubmissionHandler(base *BaseHandler, moderationService services.ModerationService) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       base,
		moderationService: moderationService,
	}
}

func (h *SubmissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	members := middleware.RequireRoles(models.UserRoleMember, models.UserRoleModerator)
	moderatorOnly := middleware.RequireRoles(models.UserRoleModerator)

	submissions := r.Group("/submissions")
	{
		// Public routes (видимость решает сервис)
		submissions.GET("", h.ListApproved)
		submissions.GET("/:id", h.GetSubmission)
		submissions.GET("/:id/download", h.Download)

		// Member routes
		submissions.POST("", members, h.Submit)
		submissions.POST("/:id/rate", members, h.Rate)

		// Moderator routes
		submissions.GET("/pending", moderatorOnly, h.ListPending)
		submissions.GET("/admin/all", moderatorOnly, h.ListAll)
		submissions.PUT("/:id/approve", moderatorOnly, h.Approve)
		submissions.PUT("/:id/reject", moderatorOnly, h.Reject)
		submissions.PUT("/:id", moderatorOnly, h.Update)
		submissions.DELETE("/:id", moderatorOnly, h.Delete)
	}
}

// --- Public handlers ---

func (h *SubmissionHandler) ListApproved(c *gin.Context) {
	items, err := h.moderationService.ListApproved(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondList(c, items, len(items))
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submission, err := h.moderationService.Get(c.Request.Context(), h.Caller(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, submission)
}

func (h *SubmissionHandler) Download(c *gin.Context) {
	rc, fd, err := h.moderationService.OpenFile(c.Request.Context(), h.Caller(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer rc.Close()

	headers := map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": fd.Name}),
	}
	c.DataFromReader(http.StatusOK, fd.Size, fd.MediaType, rc, headers)
}

// --- Member handlers ---

func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			logger.CtxWithError(c.Request.Context(), "Failed to read uploaded file", err)
			h.HandleServiceError(c, err)
			return
		}
		file = nil
	}

	submission, err := h.moderationService.Submit(c.Request.Context(), h.Caller(c), &req, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusCreated, submission)
}

func (h *SubmissionHandler) Rate(c *gin.Context) {
	var req dto.RateSubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	summary, err := h.moderationService.Rate(c.Request.Context(), h.Caller(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, summary)
}

// --- Moderator handlers ---

func (h *SubmissionHandler) ListPending(c *gin.Context) {
	items, err := h.moderationService.ListPending(c.Request.Context(), h.Caller(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondList(c, items, len(items))
}

func (h *SubmissionHandler) ListAll(c *gin.Context) {
	items, err := h.moderationService.ListAll(c.Request.Context(), h.Caller(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondList(c, items, len(items))
}

func (h *SubmissionHandler) Approve(c *gin.Context) {
	submission, err := h.moderationService.Approve(c.Request.Context(), h.Caller(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, submission)
}

func (h *SubmissionHandler) Reject(c *gin.Context) {
	submission, err := h.moderationService.Reject(c.Request.Context(), h.Caller(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, submission)
}

func (h *SubmissionHandler) Update(c *gin.Context) {
	var req dto.UpdateSubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	submission, err := h.moderationService.Update(c.Request.Context(), h.Caller(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, submission)
}

func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.moderationService.Delete(c.Request.Context(), h.Caller(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondMessage(c, "Submission deleted successfully")
}
