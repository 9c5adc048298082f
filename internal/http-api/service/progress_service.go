package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookmise/internal/cache"
	"bookmise/internal/http-api/models"
	"bookmise/internal/http-api/repository"

	"gorm.io/gorm"
)

// ProgressService maintains the current page and completion percentage
// per (user, book).
type ProgressService interface {
	RecordPage(ctx context.Context, userID string, bookID int64, pageNo int) (*models.ReadingProgress, error)
	GetPage(ctx context.Context, userID string, bookID int64) (int, error)
	GetAll(ctx context.Context, userID string) ([]models.ReadingProgress, error)
	Delete(ctx context.Context, userID string, bookID int64) error
}

type progressService struct {
	repo       repository.ProgressRepository
	bookRepo   repository.BookRepository
	cache      *cache.ProgressCache
	statsCache *cache.StatsCache
	logger     *slog.Logger
}

func NewProgressService(
	repo repository.ProgressRepository,
	bookRepo repository.BookRepository,
	progressCache *cache.ProgressCache,
	statsCache *cache.StatsCache,
) ProgressService {
	return &progressService{
		repo:       repo,
		bookRepo:   bookRepo,
		cache:      progressCache,
		statsCache: statsCache,
		logger:     slog.Default(),
	}
}

// RecordPage upserts the single progress record for (user, book),
// overwriting page, percent and updated_at. Calling it twice with the
// same page leaves the stored page and percent unchanged; only
// updated_at advances. The page is not clamped against total_pages,
// that is the caller's contract.
func (s *progressService) RecordPage(ctx context.Context, userID string, bookID int64, pageNo int) (*models.ReadingProgress, error) {
	if pageNo < 1 {
		return nil, fmt.Errorf("%w: page number must be positive, got %d", ErrInvalidArgument, pageNo)
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
		}
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book.TotalPages <= 0 {
		return nil, fmt.Errorf("%w: book %d has total_pages %d", ErrInvalidArgument, bookID, book.TotalPages)
	}

	progress := &models.ReadingProgress{
		UserID:    userID,
		BookID:    bookID,
		PageNo:    pageNo,
		Percent:   float64(pageNo) / float64(book.TotalPages) * 100,
		UpdatedAt: time.Now(),
	}

	if err := s.repo.UpsertProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	// Write-through to the cache and drop the stale profile stats.
	// Both are best effort: Postgres already holds the truth.
	if err := s.cache.Save(ctx, progress); err != nil {
		s.logger.Warn("progress_cache_write_failed", "user_id", userID, "book_id", bookID, "error", err)
	}
	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}

	return progress, nil
}

// GetPage returns the last recorded page, or 1 when the user has never
// opened the book. Only the cache miss path touches Postgres.
func (s *progressService) GetPage(ctx context.Context, userID string, bookID int64) (int, error) {
	if cached, err := s.cache.Get(ctx, userID, bookID); err != nil {
		s.logger.Warn("progress_cache_read_failed", "user_id", userID, "book_id", bookID, "error", err)
	} else if cached != nil {
		return cached.PageNo, nil
	}

	progress, err := s.repo.GetProgressByBookID(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil // first open
		}
		return 0, fmt.Errorf("get progress: %w", err)
	}

	// Warm the cache with what Postgres knows
	if err := s.cache.Save(ctx, progress); err != nil {
		s.logger.Debug("progress_cache_warm_failed", "user_id", userID, "book_id", bookID, "error", err)
	}

	return progress.PageNo, nil
}

func (s *progressService) GetAll(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	return s.repo.GetAllProgress(ctx, userID)
}

func (s *progressService) Delete(ctx context.Context, userID string, bookID int64) error {
	if err := s.repo.DeleteProgress(ctx, userID, bookID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if err := s.cache.Delete(ctx, userID, bookID); err != nil {
		s.logger.Warn("progress_cache_evict_failed", "user_id", userID, "book_id", bookID, "error", err)
	}
	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}
	return nil
}
