package repository

import (
	"context"
	"time"

	"bookmise/internal/http-api/models"

	"gorm.io/gorm"
)

type ProgressRepository interface {
	GetAllProgress(ctx context.Context, userID string) ([]models.ReadingProgress, error)
	GetProgressByBookID(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error)
	UpsertProgress(ctx context.Context, progress *models.ReadingProgress) error
	DeleteProgress(ctx context.Context, userID string, bookID int64) error
	DeleteByBook(ctx context.Context, bookID int64) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetAllProgress(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *progressRepository) GetProgressByBookID(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertProgress keeps exactly one record per (user, book).
func (r *progressRepository) UpsertProgress(ctx context.Context, progress *models.ReadingProgress) error {
	var existing models.ReadingProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", progress.UserID, progress.BookID).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		progress.UpdatedAt = time.Now()
		return r.db.WithContext(ctx).Create(progress).Error
	} else if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"page_no":    progress.PageNo,
		"percent":    progress.Percent,
		"updated_at": time.Now(),
	}).Error
}

func (r *progressRepository) DeleteProgress(ctx context.Context, userID string, bookID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.ReadingProgress{}).Error
}

// DeleteByBook removes every user's progress for a book; used by the
// book delete cascade.
func (r *progressRepository) DeleteByBook(ctx context.Context, bookID int64) error {
	return r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&models.ReadingProgress{}).Error
}
