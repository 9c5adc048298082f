package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/middleware"
	"bookmise/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers reading-progress routes on an authed group
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetAllProgress)
	rg.GET("/:book_id", h.GetCurrentPage)
	rg.PUT("/:book_id", h.RecordPage)
	rg.DELETE("/:book_id", h.DeleteProgress)
}

// RecordPage upserts the user's bookmark for a book
func (h *ProgressHandler) RecordPage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var uri dto.BookURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req dto.RecordPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.RecordPage(ctx, userID, uri.BookID, req.PageNo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record progress"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ProgressResponse{
		UserID:    progress.UserID,
		BookID:    progress.BookID,
		PageNo:    progress.PageNo,
		Percent:   progress.Percent,
		UpdatedAt: progress.UpdatedAt.Format(time.RFC3339),
	})
}

// GetCurrentPage returns the saved page for a book, page 1 when none saved
func (h *ProgressHandler) GetCurrentPage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var uri dto.BookURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pageNo, err := h.progressService.GetPage(ctx, userID, uri.BookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, dto.CurrentPageResponse{BookID: uri.BookID, PageNo: pageNo})
}

func (h *ProgressHandler) GetAllProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progresses, err := h.progressService.GetAll(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progress"})
		return
	}

	responses := make([]dto.ProgressResponse, 0, len(progresses))
	for _, p := range progresses {
		responses = append(responses, dto.ProgressResponse{
			UserID:    p.UserID,
			BookID:    p.BookID,
			PageNo:    p.PageNo,
			Percent:   p.Percent,
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, responses)
}

func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var uri dto.BookURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.progressService.Delete(ctx, userID, uri.BookID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "progress not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete progress"})
		return
	}

	c.Status(http.StatusNoContent)
}
