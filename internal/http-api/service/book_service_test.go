package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookmise/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newBookServiceForTest(repo *MockBookRepository, noteRepo *MockNoteRepository, progressRepo *MockProgressRepository, store *MockObjectStore) BookService {
	return NewBookService(repo, noteRepo, progressRepo, store, nil, nil)
}

func TestUploadBook_FallsBackToDeclaredPages(t *testing.T) {
	repo := new(MockBookRepository)
	store := new(MockObjectStore)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), store)

	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".pdf")
	}), mock.Anything, mock.Anything, "application/pdf").Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	store.On("PresignGet", mock.Anything, mock.Anything, readURLExpiry).
		Return("https://storage.example/signed", nil)

	// not a parseable PDF, so the client's declared count is used
	book, err := svc.Upload(context.Background(), "user-1", "My Book", "", []byte("not a pdf"), 321)

	assert.NoError(t, err)
	assert.Equal(t, 321, book.TotalPages)
	assert.NotNil(t, book.ObjectKey)
	assert.NotNil(t, book.PDFURL)
	store.AssertExpectations(t)
}

func TestUploadBook_EmptyTitle(t *testing.T) {
	repo := new(MockBookRepository)
	store := new(MockObjectStore)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), store)

	_, err := svc.Upload(context.Background(), "user-1", "   ", "", []byte("data"), 100)

	assert.ErrorIs(t, err, ErrInvalidArgument)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadBook_UnknownPageCount(t *testing.T) {
	repo := new(MockBookRepository)
	store := new(MockObjectStore)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), store)

	// unparseable PDF and no declared count: nothing to divide by later
	_, err := svc.Upload(context.Background(), "user-1", "My Book", "", []byte("junk"), 0)

	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUploadBook_RowFailureCleansUpObject(t *testing.T) {
	repo := new(MockBookRepository)
	store := new(MockObjectStore)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), store)

	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	store.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Upload(context.Background(), "user-1", "My Book", "", []byte("junk"), 100)

	assert.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddOfflineBook(t *testing.T) {
	repo := new(MockBookRepository)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), new(MockObjectStore))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Title == "Paper Copy" && b.TotalPages == 250 && b.ObjectKey == nil
	})).Return(nil)

	book, err := svc.AddOffline(context.Background(), "user-1", "Paper Copy", "Someone", 250, "")

	assert.NoError(t, err)
	assert.Equal(t, "Someone", *book.Author)
	repo.AssertExpectations(t)
}

func TestAddOfflineBook_RejectsNonPositivePages(t *testing.T) {
	repo := new(MockBookRepository)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), new(MockObjectStore))

	_, err := svc.AddOffline(context.Background(), "user-1", "Paper Copy", "", 0, "")

	assert.ErrorIs(t, err, ErrInvalidArgument)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetBook_HidesOtherUsersBooks(t *testing.T) {
	repo := new(MockBookRepository)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), new(MockObjectStore))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Book{ID: 7, UserID: "someone-else", TotalPages: 10}, nil)

	_, err := svc.Get(context.Background(), "user-1", 7)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBook_TitleAndAuthorOnly(t *testing.T) {
	repo := new(MockBookRepository)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), new(MockObjectStore))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Book{ID: 7, UserID: "user-1", Title: "Old", TotalPages: 300}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Title == "New Title" && b.TotalPages == 300
	})).Return(nil)

	title := "New Title"
	book, err := svc.Update(context.Background(), "user-1", 7, &title, nil)

	assert.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, 300, book.TotalPages)
}

func TestUpdateBook_EmptyTitleRejected(t *testing.T) {
	repo := new(MockBookRepository)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), new(MockObjectStore))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Book{ID: 7, UserID: "user-1", Title: "Old"}, nil)

	title := "  "
	_, err := svc.Update(context.Background(), "user-1", 7, &title, nil)

	assert.ErrorIs(t, err, ErrInvalidArgument)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteBook_CascadesNotesProgressAndObject(t *testing.T) {
	repo := new(MockBookRepository)
	noteRepo := new(MockNoteRepository)
	progressRepo := new(MockProgressRepository)
	store := new(MockObjectStore)
	svc := newBookServiceForTest(repo, noteRepo, progressRepo, store)

	key := "abc123.pdf"
	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Book{ID: 7, UserID: "user-1", ObjectKey: &key}, nil)
	noteRepo.On("DeleteByBook", mock.Anything, int64(7)).Return(nil)
	progressRepo.On("DeleteByBook", mock.Anything, int64(7)).Return(nil)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)
	store.On("Delete", mock.Anything, key).Return(nil)

	err := svc.Delete(context.Background(), "user-1", 7)

	assert.NoError(t, err)
	noteRepo.AssertExpectations(t)
	progressRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestDeleteBook_StorageFailureDoesNotFailDelete(t *testing.T) {
	repo := new(MockBookRepository)
	noteRepo := new(MockNoteRepository)
	progressRepo := new(MockProgressRepository)
	store := new(MockObjectStore)
	svc := newBookServiceForTest(repo, noteRepo, progressRepo, store)

	key := "abc123.pdf"
	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Book{ID: 7, UserID: "user-1", ObjectKey: &key}, nil)
	noteRepo.On("DeleteByBook", mock.Anything, int64(7)).Return(nil)
	progressRepo.On("DeleteByBook", mock.Anything, int64(7)).Return(nil)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)
	store.On("Delete", mock.Anything, key).Return(errors.New("bucket unreachable"))

	// the rows are gone; the orphaned object is a cleanup concern
	err := svc.Delete(context.Background(), "user-1", 7)

	assert.NoError(t, err)
}

func TestDeleteBook_NotFound(t *testing.T) {
	repo := new(MockBookRepository)
	svc := newBookServiceForTest(repo, new(MockNoteRepository), new(MockProgressRepository), new(MockObjectStore))

	repo.On("GetByID", mock.Anything, int64(99)).
		Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "user-1", 99)

	assert.ErrorIs(t, err, ErrNotFound)
}
