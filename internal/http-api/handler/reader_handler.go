package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/middleware"
	"bookmise/internal/http-api/service"
	"bookmise/internal/reader"

	"github.com/gin-gonic/gin"
)

// ReaderHandler serves the reading screen's page-turn endpoint. Each
// (user, book) pair gets its own reader.Session so rapid page turns on
// the same book supersede each other without affecting other readers.
type ReaderHandler struct {
	progressService service.ProgressService
	noteService     service.NoteService

	mu       sync.Mutex
	sessions map[string]*reader.Session
}

func NewReaderHandler(progressService service.ProgressService, noteService service.NoteService) *ReaderHandler {
	return &ReaderHandler{
		progressService: progressService,
		noteService:     noteService,
		sessions:        make(map[string]*reader.Session),
	}
}

// RegisterRoutes registers reader routes on an authed group
func (h *ReaderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:book_id/page/:page_no", h.OpenPage)
}

func (h *ReaderHandler) session(userID string, bookID int64) *reader.Session {
	key := fmt.Sprintf("%s/%d", userID, bookID)

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[key]
	if !ok {
		s = reader.NewSession(h.progressService, h.noteService)
		h.sessions[key] = s
	}
	return s
}

// OpenPage records the new position and returns that page's view:
// the saved progress plus the page's notes. When a newer page turn
// started before this one resolved, the stale result is dropped with
// 409 so the client never renders an out-of-date page.
func (h *ReaderHandler) OpenPage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookID, pageNo, ok := bindPageURI(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	view, err := h.session(userID, bookID).OpenPage(ctx, userID, bookID, pageNo)
	if err != nil {
		switch {
		case errors.Is(err, reader.ErrSuperseded):
			c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer page turn"})
		case errors.Is(err, service.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open page"})
		}
		return
	}

	resp := dto.PageViewResponse{
		Progress: dto.ProgressResponse{
			UserID:    view.Progress.UserID,
			BookID:    view.Progress.BookID,
			PageNo:    view.Progress.PageNo,
			Percent:   view.Progress.Percent,
			UpdatedAt: view.Progress.UpdatedAt.Format(time.RFC3339),
		},
		Notes: view.Notes,
	}
	if view.NotesErr != nil {
		resp.NotesError = "failed to load notes for this page"
	}

	c.JSON(http.StatusOK, resp)
}
