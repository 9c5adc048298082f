package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/middleware"
	"bookmise/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type PomodoroHandler struct {
	pomodoroService service.PomodoroService
}

func NewPomodoroHandler(pomodoroService service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroService: pomodoroService}
}

// RegisterRoutes registers focus-session routes on an authed group
func (h *PomodoroHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.LogSession)
	rg.GET("", h.ListSessions)
}

func (h *PomodoroHandler) LogSession(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.LogPomodoroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	session, err := h.pomodoroService.Log(ctx, userID, req.BookID, req.Duration, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log session"})
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions returns the user's sessions, optionally scoped to one book
func (h *PomodoroHandler) ListSessions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var bookID int64
	if raw := c.Query("book_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
			return
		}
		bookID = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.pomodoroService.List(ctx, userID, bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}
