package reader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bookmise/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	mu      sync.Mutex
	calls   []int
	err     error
	barrier chan struct{} // when set, RecordPage blocks until it closes
}

func (f *fakeTracker) RecordPage(ctx context.Context, userID string, bookID int64, pageNo int) (*models.ReadingProgress, error) {
	if f.barrier != nil {
		<-f.barrier
	}
	f.mu.Lock()
	f.calls = append(f.calls, pageNo)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReadingProgress{UserID: userID, BookID: bookID, PageNo: pageNo}, nil
}

type fakeNotes struct {
	notes []models.Note
	err   error
}

func (f *fakeNotes) ListForPage(ctx context.Context, userID string, bookID int64, pageNo int) ([]models.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.notes, nil
}

func TestOpenPage_ReturnsProgressAndNotes(t *testing.T) {
	tracker := &fakeTracker{}
	notes := &fakeNotes{notes: []models.Note{{ID: 1, Content: "margin scribble"}}}
	session := NewSession(tracker, notes)

	view, err := session.OpenPage(context.Background(), "user-1", 7, 12)

	require.NoError(t, err)
	assert.Equal(t, 12, view.Progress.PageNo)
	assert.Len(t, view.Notes, 1)
	assert.NoError(t, view.NotesErr)
}

func TestOpenPage_ProgressFailureFailsTheView(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("db down")}
	session := NewSession(tracker, &fakeNotes{})

	view, err := session.OpenPage(context.Background(), "user-1", 7, 12)

	assert.Error(t, err)
	assert.Nil(t, view)
}

func TestOpenPage_NoteFailureStillReturnsView(t *testing.T) {
	tracker := &fakeTracker{}
	notes := &fakeNotes{err: errors.New("notes table unavailable")}
	session := NewSession(tracker, notes)

	view, err := session.OpenPage(context.Background(), "user-1", 7, 12)

	require.NoError(t, err)
	assert.Equal(t, 12, view.Progress.PageNo)
	assert.Error(t, view.NotesErr)
	assert.Nil(t, view.Notes)
}

func TestOpenPage_StaleRequestIsSuperseded(t *testing.T) {
	barrier := make(chan struct{})
	tracker := &fakeTracker{barrier: barrier}
	session := NewSession(tracker, &fakeNotes{})

	// first page change blocks inside RecordPage
	firstDone := make(chan error, 1)
	go func() {
		_, err := session.OpenPage(context.Background(), "user-1", 7, 12)
		firstDone <- err
	}()

	// second page change bumps the sequence, then both proceed
	secondDone := make(chan error, 1)
	go func() {
		_, err := session.OpenPage(context.Background(), "user-1", 7, 13)
		secondDone <- err
	}()

	close(barrier)

	firstErr := <-firstDone
	secondErr := <-secondDone

	// exactly one of the two wins; the loser reports superseded
	if firstErr == nil {
		assert.ErrorIs(t, secondErr, ErrSuperseded)
	} else {
		assert.ErrorIs(t, firstErr, ErrSuperseded)
		assert.NoError(t, secondErr)
	}

	// both writes still landed; only the stale view was discarded
	tracker.mu.Lock()
	assert.Len(t, tracker.calls, 2)
	tracker.mu.Unlock()
}

func TestOpenPage_SequentialRequestsAllSucceed(t *testing.T) {
	tracker := &fakeTracker{}
	session := NewSession(tracker, &fakeNotes{})

	for _, pageNo := range []int{1, 2, 3} {
		view, err := session.OpenPage(context.Background(), "user-1", 7, pageNo)
		require.NoError(t, err)
		assert.Equal(t, pageNo, view.Progress.PageNo)
	}
}
