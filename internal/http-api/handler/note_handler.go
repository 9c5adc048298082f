package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/middleware"
	"bookmise/internal/http-api/repository"
	"bookmise/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteService service.NoteService
}

func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// RegisterRoutes registers note routes on an authed group
func (h *NoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.AddNote)
	rg.GET("", h.SearchNotes)
	rg.GET("/book/:book_id", h.ListForBook)
	rg.GET("/book/:book_id/page/:page_no", h.ListForPage)
	rg.GET("/book/:book_id/page/:page_no/deck", h.DeckPreview)
	rg.PATCH("/:note_id", h.EditNote)
	rg.PATCH("/:note_id/pin", h.PinNote)
	rg.DELETE("/:note_id", h.RemoveNote)
}

// AddNote creates a page-anchored note. Blank content is accepted and
// dropped without writing anything.
func (h *NoteHandler) AddNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	note, err := h.noteService.Add(ctx, userID, req.BookID, req.PageNo, req.Content, req.HighlightedText)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add note"})
		return
	}
	if note == nil {
		// blank content, nothing stored
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) EditNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var uri dto.NoteURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}

	var req dto.EditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	note, err := h.noteService.Edit(ctx, userID, uri.NoteID, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit note"})
		return
	}
	if note == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) PinNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var uri dto.NoteURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}

	var req dto.PinNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	note, err := h.noteService.TogglePin(ctx, userID, uri.NoteID, *req.Pinned, req.X, req.Y)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pin note"})
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) RemoveNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var uri dto.NoteURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.noteService.Remove(ctx, userID, uri.NoteID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NoteHandler) ListForBook(c *gin.Context) {
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

	notes, err := h.noteService.ListForBook(ctx, userID, uri.BookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) ListForPage(c *gin.Context) {
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

	notes, err := h.noteService.ListForPage(ctx, userID, bookID, pageNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// DeckPreview returns the stacked-card rendering for a page's notes.
// ?expanded=true widens the card offsets for the hover state.
func (h *NoteHandler) DeckPreview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookID, pageNo, ok := bindPageURI(c)
	if !ok {
		return
	}

	expanded := c.Query("expanded") == "true"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notes, err := h.noteService.ListForPage(ctx, userID, bookID, pageNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
		return
	}

	c.JSON(http.StatusOK, service.BuildDeckPreview(notes, expanded))
}

// SearchNotes filters the user's notes by book, page, pin state, and a
// case-insensitive content match
func (h *NoteHandler) SearchNotes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filters := repository.NoteFilters{Search: c.Query("q")}
	if raw := c.Query("book_id"); raw != "" {
		bookID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
			return
		}
		filters.BookID = bookID
	}
	if raw := c.Query("page_no"); raw != "" {
		pageNo, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_no"})
			return
		}
		filters.PageNo = pageNo
	}
	if raw := c.Query("pinned"); raw != "" {
		pinned, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pinned"})
			return
		}
		filters.Pinned = &pinned
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notes, err := h.noteService.Search(ctx, userID, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

func bindPageURI(c *gin.Context) (bookID int64, pageNo int, ok bool) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return 0, 0, false
	}
	pageNo, err = strconv.Atoi(c.Param("page_no"))
	if err != nil || pageNo < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return 0, 0, false
	}
	return bookID, pageNo, true
}
