package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookmise/internal/cache"
	"bookmise/internal/http-api/models"
	"bookmise/internal/http-api/repository"
	"bookmise/internal/pdfmeta"
	"bookmise/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// How long a presigned read link stays valid. A reading session can be
// long; the client refetches the book on reopen anyway.
const readURLExpiry = 12 * time.Hour

// BookService manages the user's library. Uploaded books live as PDFs
// in object storage; offline books are metadata-only entries.
type BookService interface {
	Upload(ctx context.Context, userID, title, author string, pdfData []byte, declaredPages int) (*models.Book, error)
	AddOffline(ctx context.Context, userID, title, author string, totalPages int, thumbData string) (*models.Book, error)
	List(ctx context.Context, userID string) ([]models.Book, error)
	Get(ctx context.Context, userID string, bookID int64) (*models.Book, error)
	Update(ctx context.Context, userID string, bookID int64, title, author *string) (*models.Book, error)
	Delete(ctx context.Context, userID string, bookID int64) error
}

type bookService struct {
	repo         repository.BookRepository
	noteRepo     repository.NoteRepository
	progressRepo repository.ProgressRepository
	store        storage.ObjectStore
	progCache    *cache.ProgressCache
	statsCache   *cache.StatsCache
	logger       *slog.Logger
}

func NewBookService(
	repo repository.BookRepository,
	noteRepo repository.NoteRepository,
	progressRepo repository.ProgressRepository,
	store storage.ObjectStore,
	progCache *cache.ProgressCache,
	statsCache *cache.StatsCache,
) BookService {
	return &bookService{
		repo:         repo,
		noteRepo:     noteRepo,
		progressRepo: progressRepo,
		store:        store,
		progCache:    progCache,
		statsCache:   statsCache,
		logger:       slog.Default(),
	}
}

// Upload stores the PDF under a fresh <uuid>.pdf key and creates the
// book row. The page count comes from the PDF itself; the client's
// declared count is only a fallback for files the parser chokes on.
// total_pages is fixed here for the life of the book: it is the
// denominator for every percent and streak computation downstream.
func (s *bookService) Upload(ctx context.Context, userID, title, author string, pdfData []byte, declaredPages int) (*models.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidArgument)
	}

	totalPages, err := pdfmeta.PageCount(pdfData)
	if err != nil {
		s.logger.Warn("pdf_page_count_failed", "title", title, "error", err)
		totalPages = declaredPages
	}
	if totalPages <= 0 {
		return nil, fmt.Errorf("%w: could not determine page count", ErrInvalidArgument)
	}

	key := uuid.New().String() + ".pdf"
	if err := s.store.Put(ctx, key, bytes.NewReader(pdfData), int64(len(pdfData)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}

	book := &models.Book{
		UserID:     userID,
		Title:      title,
		TotalPages: totalPages,
		ObjectKey:  &key,
	}
	if a := strings.TrimSpace(author); a != "" {
		book.Author = &a
	}

	if err := s.repo.Create(ctx, book); err != nil {
		// keep storage consistent with the table
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("orphaned_pdf_object", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}

	s.fillReadURL(ctx, book)
	return book, nil
}

// AddOffline creates a metadata-only entry for a physical book, with an
// optional cover thumbnail payload.
func (s *bookService) AddOffline(ctx context.Context, userID, title, author string, totalPages int, thumbData string) (*models.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if totalPages <= 0 {
		return nil, fmt.Errorf("%w: total_pages must be positive, got %d", ErrInvalidArgument, totalPages)
	}

	book := &models.Book{
		UserID:     userID,
		Title:      title,
		TotalPages: totalPages,
	}
	if a := strings.TrimSpace(author); a != "" {
		book.Author = &a
	}
	if thumbData != "" {
		book.ThumbData = &thumbData
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}

	return book, nil
}

func (s *bookService) List(ctx context.Context, userID string) ([]models.Book, error) {
	books, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	for i := range books {
		s.fillReadURL(ctx, &books[i])
	}
	return books, nil
}

func (s *bookService) Get(ctx context.Context, userID string, bookID int64) (*models.Book, error) {
	book, err := s.loadOwned(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	s.fillReadURL(ctx, book)
	return book, nil
}

// Update changes title and author only. total_pages is immutable after
// creation.
func (s *bookService) Update(ctx context.Context, userID string, bookID int64, title, author *string) (*models.Book, error) {
	book, err := s.loadOwned(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidArgument)
		}
		book.Title = t
	}
	if author != nil {
		a := strings.TrimSpace(*author)
		if a == "" {
			book.Author = nil
		} else {
			book.Author = &a
		}
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	s.fillReadURL(ctx, book)
	return book, nil
}

// Delete removes the book, its notes and progress, and the stored PDF.
// The row deletes are the authoritative part; a storage failure after
// they land is logged and left for bucket cleanup.
func (s *bookService) Delete(ctx context.Context, userID string, bookID int64) error {
	book, err := s.loadOwned(ctx, userID, bookID)
	if err != nil {
		return err
	}

	if err := s.noteRepo.DeleteByBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}
	if err := s.progressRepo.DeleteByBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if err := s.repo.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if book.ObjectKey != nil {
		if err := s.store.Delete(ctx, *book.ObjectKey); err != nil {
			s.logger.Error("orphaned_pdf_object", "key", *book.ObjectKey, "error", err)
		}
	}

	if err := s.progCache.Delete(ctx, userID, bookID); err != nil {
		s.logger.Warn("progress_cache_evict_failed", "user_id", userID, "book_id", bookID, "error", err)
	}
	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}

	return nil
}

// loadOwned fetches a book and hides other users' books behind NotFound.
func (s *bookService) loadOwned(ctx context.Context, userID string, bookID int64) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
		}
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book.UserID != userID {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}
	return book, nil
}

// fillReadURL resolves the stored object key to a presigned URL. A
// presign failure degrades the response to metadata-only rather than
// failing it.
func (s *bookService) fillReadURL(ctx context.Context, book *models.Book) {
	if book.ObjectKey == nil {
		return
	}
	url, err := s.store.PresignGet(ctx, *book.ObjectKey, readURLExpiry)
	if err != nil {
		s.logger.Warn("presign_failed", "book_id", book.ID, "error", err)
		return
	}
	book.PDFURL = &url
}
