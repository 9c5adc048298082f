package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupReaderRouter(progress *MockProgressService, notes *MockNoteService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	NewReaderHandler(progress, notes).RegisterRoutes(r.Group("/reader"))
	return r
}

func TestOpenPageEndpoint_ReturnsProgressAndNotes(t *testing.T) {
	progress := new(MockProgressService)
	notes := new(MockNoteService)
	router := setupReaderRouter(progress, notes, "user-1")

	progress.On("RecordPage", mock.Anything, "user-1", int64(7), 12).
		Return(&models.ReadingProgress{
			UserID: "user-1", BookID: 7, PageNo: 12, Percent: 12, UpdatedAt: time.Now(),
		}, nil)
	notes.On("ListForPage", mock.Anything, "user-1", int64(7), 12).
		Return([]models.Note{
			{ID: 1, BookID: 7, PageNo: 12, Content: "call me Ishmael"},
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/reader/7/page/12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.PageViewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Progress.PageNo)
	assert.Len(t, resp.Notes, 1)
	assert.Equal(t, "call me Ishmael", resp.Notes[0].Content)
	assert.Empty(t, resp.NotesError)
}

func TestOpenPageEndpoint_NoteFailureStillReturnsView(t *testing.T) {
	progress := new(MockProgressService)
	notes := new(MockNoteService)
	router := setupReaderRouter(progress, notes, "user-1")

	progress.On("RecordPage", mock.Anything, "user-1", int64(7), 12).
		Return(&models.ReadingProgress{
			UserID: "user-1", BookID: 7, PageNo: 12, Percent: 12, UpdatedAt: time.Now(),
		}, nil)
	notes.On("ListForPage", mock.Anything, "user-1", int64(7), 12).
		Return(nil, errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodPost, "/reader/7/page/12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.PageViewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Progress.PageNo)
	assert.Empty(t, resp.Notes)
	assert.NotEmpty(t, resp.NotesError)
}

// A page turn that is overtaken by a newer one on the same book must
// not be rendered: the slow request comes back 409 while the newer one
// wins. Both bookmark writes still land.
func TestOpenPageEndpoint_StaleTurnDiscarded(t *testing.T) {
	progress := new(MockProgressService)
	notes := new(MockNoteService)
	router := setupReaderRouter(progress, notes, "user-1")

	started := make(chan struct{})
	release := make(chan struct{})
	progress.On("RecordPage", mock.Anything, "user-1", int64(7), 12).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.ReadingProgress{UserID: "user-1", BookID: 7, PageNo: 12, UpdatedAt: time.Now()}, nil)
	progress.On("RecordPage", mock.Anything, "user-1", int64(7), 13).
		Return(&models.ReadingProgress{UserID: "user-1", BookID: 7, PageNo: 13, UpdatedAt: time.Now()}, nil)
	notes.On("ListForPage", mock.Anything, "user-1", int64(7), 13).
		Return([]models.Note{}, nil)

	slow := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(slow, httptest.NewRequest(http.MethodPost, "/reader/7/page/12", nil))
	}()
	<-started

	fast := httptest.NewRecorder()
	router.ServeHTTP(fast, httptest.NewRequest(http.MethodPost, "/reader/7/page/13", nil))
	require.Equal(t, http.StatusOK, fast.Code)

	close(release)
	<-done
	assert.Equal(t, http.StatusConflict, slow.Code)

	progress.AssertExpectations(t)
	notes.AssertNotCalled(t, "ListForPage", mock.Anything, "user-1", int64(7), 12)
}

func TestOpenPageEndpoint_InvalidPage(t *testing.T) {
	progress := new(MockProgressService)
	notes := new(MockNoteService)
	router := setupReaderRouter(progress, notes, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/reader/7/page/0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	progress.AssertNotCalled(t, "RecordPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenPageEndpoint_Unauthorized(t *testing.T) {
	router := setupReaderRouter(new(MockProgressService), new(MockNoteService), "")

	req := httptest.NewRequest(http.MethodPost, "/reader/7/page/12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
