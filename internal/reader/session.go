package reader

import (
	"context"
	"errors"
	"sync"

	"bookmise/internal/http-api/models"
)

// ErrSuperseded reports that a newer page change started before this
// one finished; the caller should drop the result.
var ErrSuperseded = errors.New("page request superseded")

// ProgressTracker is the slice of the progress service the session uses.
type ProgressTracker interface {
	RecordPage(ctx context.Context, userID string, bookID int64, pageNo int) (*models.ReadingProgress, error)
}

// NoteLister is the slice of the note service the session uses.
type NoteLister interface {
	ListForPage(ctx context.Context, userID string, bookID int64, pageNo int) ([]models.Note, error)
}

// PageView is what a reader screen renders after a page change.
// NotesErr is non-nil when the progress write landed but the note
// reload failed; the previous note list stays on screen until the next
// page change.
type PageView struct {
	Progress *models.ReadingProgress
	Notes    []models.Note
	NotesErr error
}

// Session serializes page changes for one reading session. When page
// changes arrive faster than they resolve, only the latest request's
// result is kept; earlier in-flight results come back ErrSuperseded.
// Staleness is decided by sequence comparison, not response ordering.
type Session struct {
	tracker ProgressTracker
	notes   NoteLister

	mu  sync.Mutex
	seq uint64
}

func NewSession(tracker ProgressTracker, notes NoteLister) *Session {
	return &Session{tracker: tracker, notes: notes}
}

// OpenPage records the new position and reloads that page's notes.
// The two steps are a best-effort sequence, not a transaction.
func (s *Session) OpenPage(ctx context.Context, userID string, bookID int64, pageNo int) (*PageView, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	progress, err := s.tracker.RecordPage(ctx, userID, bookID, pageNo)
	if err != nil {
		return nil, err
	}
	if !s.isCurrent(seq) {
		return nil, ErrSuperseded
	}

	view := &PageView{Progress: progress}
	notes, err := s.notes.ListForPage(ctx, userID, bookID, pageNo)
	if err != nil {
		view.NotesErr = err
	} else {
		view.Notes = notes
	}

	if !s.isCurrent(seq) {
		return nil, ErrSuperseded
	}
	return view, nil
}

func (s *Session) isCurrent(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}
